package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/postgres"
	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/sqlite"
)

// OpenStore connects to the configured database without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		st, err := sqlite.NewStore(sqlite.FileDSN(cfg.DatabaseFile))
		if err != nil {
			return nil, err
		}
		return st, nil
	case DriverPostgres:
		st, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// SchemaVersioner is implemented by stores that can report their migration
// state.
type SchemaVersioner interface {
	SchemaVersion() (version uint, dirty bool, err error)
}
