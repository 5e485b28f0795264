package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUp is a seam for tests that must not reach a real database.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

func setupGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.SetDialect("pgx")
}

// ApplyMigrations runs the embedded goose migrations.
func (s *Store) ApplyMigrations() error {
	if err := setupGoose(); err != nil {
		return fmt.Errorf("postgres: goose: %w", err)
	}
	if err := gooseUp(context.Background(), s.db.DB, "."); err != nil {
		return fmt.Errorf("postgres: migrate up: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied goose version. Goose has no dirty state.
func (s *Store) SchemaVersion() (uint, bool, error) {
	if err := setupGoose(); err != nil {
		return 0, false, err
	}
	v, err := goose.GetDBVersionContext(context.Background(), s.db.DB)
	if err != nil {
		return 0, false, err
	}
	return uint(v), false, nil
}
