package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sqlc-dev/pqtype"

	"github.com/tudorhoriadaniel/seo-crawler/internal/crawl"
	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

// Store wraps all database access behind typed methods on a shared
// *sql.DB with pooling.
type Store struct {
	DB *sql.DB
}

// New creates a new Store that uses a shared *sql.DB with pooling.
func New(database *sql.DB) *Store {
	return &Store{DB: database}
}

// CreateProject inserts a new project row.
func (s *Store) CreateProject(ctx context.Context, id uuid.UUID, name, url string) (model.Project, error) {
	var p model.Project
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO projects (id, name, url)
		VALUES ($1, $2, $3)
		RETURNING id, name, url, created_at`,
		id, name, url,
	).Scan(&p.ID, &p.Name, &p.URL, &p.CreatedAt)
	return p, err
}

// GetProject fetches one project by ID. Returns sql.ErrNoRows when absent.
func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (model.Project, error) {
	var p model.Project
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, url, created_at
		FROM projects
		WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.URL, &p.CreatedAt)
	return p, err
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, url, created_at
		FROM projects
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project and, via cascade, its crawls and pages.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateCrawl inserts a new crawl in status pending.
func (s *Store) CreateCrawl(ctx context.Context, id, projectID uuid.UUID) (model.Crawl, error) {
	var c model.Crawl
	var errMsg sql.NullString
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO crawls (id, project_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, project_id, status, pages_crawled, error, created_at, started_at, finished_at`,
		id, projectID,
	).Scan(&c.ID, &c.ProjectID, &c.Status, &c.PagesCrawled, &errMsg, &c.CreatedAt, &c.StartedAt, &c.FinishedAt)
	c.Error = errMsg.String
	return c, err
}

// GetCrawl fetches one crawl by ID.
func (s *Store) GetCrawl(ctx context.Context, id uuid.UUID) (model.Crawl, error) {
	var c model.Crawl
	var errMsg sql.NullString
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, project_id, status, pages_crawled, error, created_at, started_at, finished_at
		FROM crawls
		WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ProjectID, &c.Status, &c.PagesCrawled, &errMsg, &c.CreatedAt, &c.StartedAt, &c.FinishedAt)
	c.Error = errMsg.String
	return c, err
}

// ListCrawlsByProject returns a project's crawls, newest first.
func (s *Store) ListCrawlsByProject(ctx context.Context, projectID uuid.UUID) ([]model.Crawl, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, project_id, status, pages_crawled, error, created_at, started_at, finished_at
		FROM crawls
		WHERE project_id = $1
		ORDER BY created_at DESC`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crawls := []model.Crawl{}
	for rows.Next() {
		var c model.Crawl
		var errMsg sql.NullString
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Status, &c.PagesCrawled, &errMsg, &c.CreatedAt, &c.StartedAt, &c.FinishedAt); err != nil {
			return nil, err
		}
		c.Error = errMsg.String
		crawls = append(crawls, c)
	}
	return crawls, rows.Err()
}

// ListPendingCrawls returns up to limit crawls waiting to be picked up,
// oldest first, joined with their project seed URLs.
func (s *Store) ListPendingCrawls(ctx context.Context, limit int32) ([]crawl.PendingCrawl, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.id, p.url
		FROM crawls c
		JOIN projects p ON p.id = c.project_id
		WHERE c.status = 'pending'
		ORDER BY c.created_at ASC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []crawl.PendingCrawl
	for rows.Next() {
		var pc crawl.PendingCrawl
		if err := rows.Scan(&pc.ID, &pc.SeedURL); err != nil {
			return nil, err
		}
		pending = append(pending, pc)
	}
	return pending, rows.Err()
}

// ErrInvalidTransition is returned when a crawl status update would move
// the lifecycle backward or skip a state.
var ErrInvalidTransition = errors.New("invalid crawl status transition")

// UpdateCrawlStatus moves a crawl through its lifecycle. The current row
// is locked and checked against the allowed transitions first, so the
// move to crawling doubles as the dispatch claim (a crawl dispatched
// twice runs once) and a terminal status can never be overwritten.
// Terminal statuses stamp finished_at and record the failure message.
func (s *Store) UpdateCrawlStatus(ctx context.Context, id uuid.UUID, status crawl.Status, errMsg *string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current string
	if err := tx.QueryRowContext(ctx, `
		SELECT status
		FROM crawls
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(&current); err != nil {
		return err
	}
	if !crawl.CanTransition(crawl.Status(current), status) {
		return ErrInvalidTransition
	}

	switch status {
	case crawl.StatusCrawling:
		_, err = tx.ExecContext(ctx, `
			UPDATE crawls
			SET status = $2, started_at = now()
			WHERE id = $1`,
			id, string(status))
	case crawl.StatusCompleted, crawl.StatusFailed:
		var sqlErr sql.NullString
		if errMsg != nil {
			sqlErr = sql.NullString{String: *errMsg, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE crawls
			SET status = $2, error = $3, finished_at = now()
			WHERE id = $1`,
			id, string(status), sqlErr)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE crawls
			SET status = $2
			WHERE id = $1`,
			id, string(status))
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// AddPage inserts a page record and bumps the parent crawl's page counter
// in one transaction. A duplicate normalized URL within the crawl is a
// no-op: the row is kept as-is and the counter does not move.
func (s *Store) AddPage(ctx context.Context, crawlID uuid.UUID, normalizedURL string, page *model.Page) error {
	h1Texts, err := marshalJSONB(page.Signals.H1Texts)
	if err != nil {
		return fmt.Errorf("marshal h1 texts: %w", err)
	}
	schemaTypes, err := marshalJSONB(page.Signals.SchemaTypes)
	if err != nil {
		return fmt.Errorf("marshal schema types: %w", err)
	}
	issues, err := marshalJSONB(page.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sig := page.Signals
	res, err := tx.ExecContext(ctx, `
		INSERT INTO pages (
			id, crawl_id, url, normalized_url, response_time, status_code,
			title, title_length, meta_description, meta_description_length,
			canonical_url, robots_meta, h1_count, h2_count, h3_count, h1_texts,
			word_count, total_images, images_without_alt, internal_links,
			external_links, has_schema_markup, schema_types, has_viewport_meta,
			og_title, og_description, issues, score
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24,
			$25, $26, $27, $28
		)
		ON CONFLICT (crawl_id, normalized_url) DO NOTHING`,
		page.ID, crawlID, page.URL, normalizedURL, page.ResponseTime, sig.StatusCode,
		sig.Title, sig.TitleLength, sig.MetaDescription, sig.MetaDescriptionLength,
		sig.CanonicalURL, sig.RobotsMeta, sig.H1Count, sig.H2Count, sig.H3Count, h1Texts,
		sig.WordCount, sig.TotalImages, sig.ImagesWithoutAlt, sig.InternalLinks,
		sig.ExternalLinks, sig.HasSchemaMarkup, schemaTypes, sig.HasViewportMeta,
		sig.OgTitle, sig.OgDescription, issues, page.Score)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE crawls
		SET pages_crawled = pages_crawled + 1
		WHERE id = $1`,
		crawlID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListPagesByCrawl returns a crawl's pages ordered worst score first.
func (s *Store) ListPagesByCrawl(ctx context.Context, crawlID uuid.UUID) ([]model.Page, error) {
	rows, err := s.DB.QueryContext(ctx, pageColumns+`
		FROM pages
		WHERE crawl_id = $1
		ORDER BY score ASC, created_at ASC`,
		crawlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []model.Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPage fetches one page record by ID.
func (s *Store) GetPage(ctx context.Context, id uuid.UUID) (model.Page, error) {
	row := s.DB.QueryRowContext(ctx, pageColumns+`
		FROM pages
		WHERE id = $1`,
		id)
	return scanPage(row)
}

const pageColumns = `
		SELECT id, crawl_id, url, response_time, status_code,
			title, title_length, meta_description, meta_description_length,
			canonical_url, robots_meta, h1_count, h2_count, h3_count, h1_texts,
			word_count, total_images, images_without_alt, internal_links,
			external_links, has_schema_markup, schema_types, has_viewport_meta,
			og_title, og_description, issues, score, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (model.Page, error) {
	var p model.Page
	var h1Texts, schemaTypes, issues pqtype.NullRawMessage

	err := row.Scan(
		&p.ID, &p.CrawlID, &p.URL, &p.ResponseTime, &p.Signals.StatusCode,
		&p.Signals.Title, &p.Signals.TitleLength, &p.Signals.MetaDescription, &p.Signals.MetaDescriptionLength,
		&p.Signals.CanonicalURL, &p.Signals.RobotsMeta, &p.Signals.H1Count, &p.Signals.H2Count, &p.Signals.H3Count, &h1Texts,
		&p.Signals.WordCount, &p.Signals.TotalImages, &p.Signals.ImagesWithoutAlt, &p.Signals.InternalLinks,
		&p.Signals.ExternalLinks, &p.Signals.HasSchemaMarkup, &schemaTypes, &p.Signals.HasViewportMeta,
		&p.Signals.OgTitle, &p.Signals.OgDescription, &issues, &p.Score, &p.CreatedAt,
	)
	if err != nil {
		return model.Page{}, err
	}

	p.Signals.H1Texts = []string{}
	if h1Texts.Valid {
		if err := json.Unmarshal(h1Texts.RawMessage, &p.Signals.H1Texts); err != nil {
			return model.Page{}, fmt.Errorf("unmarshal h1 texts: %w", err)
		}
	}
	p.Signals.SchemaTypes = []string{}
	if schemaTypes.Valid {
		if err := json.Unmarshal(schemaTypes.RawMessage, &p.Signals.SchemaTypes); err != nil {
			return model.Page{}, fmt.Errorf("unmarshal schema types: %w", err)
		}
	}
	p.Issues = []model.Issue{}
	if issues.Valid {
		if err := json.Unmarshal(issues.RawMessage, &p.Issues); err != nil {
			return model.Page{}, fmt.Errorf("unmarshal issues: %w", err)
		}
	}

	return p, nil
}

func marshalJSONB(v any) (pqtype.NullRawMessage, error) {
	if v == nil {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}
