package http

import "github.com/tudorhoriadaniel/seo-crawler/internal/model"

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
}

// CreateProjectRequest creates a named seed URL to crawl.
type CreateProjectRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StartCrawlRequest queues a crawl for an existing project.
type StartCrawlRequest struct {
	ProjectID string `json:"projectId"`
}

type ProjectResponse struct {
	Success bool          `json:"success"`
	Project model.Project `json:"project"`
}

type ProjectListResponse struct {
	Success  bool            `json:"success"`
	Projects []model.Project `json:"projects"`
}

type CrawlResponse struct {
	Success bool        `json:"success"`
	Crawl   model.Crawl `json:"crawl"`
}

type CrawlListResponse struct {
	Success bool          `json:"success"`
	Crawls  []model.Crawl `json:"crawls"`
}

type PageResponse struct {
	Success bool       `json:"success"`
	Page    model.Page `json:"page"`
}

type PageListResponse struct {
	Success bool         `json:"success"`
	Pages   []model.Page `json:"pages"`
}

type SummaryResponse struct {
	Success bool          `json:"success"`
	Summary model.Summary `json:"summary"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
