package migrate

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const defaultDir = "db/migrations"

// Run applies all pending goose migrations before the service starts
// serving. It opens a short-lived DB handle of its own so the app store's
// pool is untouched. dir overrides the migration directory; empty means
// the standard db/migrations layout.
func Run(dsn, dir string) error {
	if dir == "" {
		dir = defaultDir
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
