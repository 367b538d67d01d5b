package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store"
)

// DB implements store.Driver over PostgreSQL. There is no backing file here,
// so corruption recovery does not apply: an initialization failure is fatal.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// Embedded preference store: keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	d := &DB{
		db:      db,
		profile: profile,
	}
	if err := d.initialize(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize preference schema")
	}
	return d, nil
}

func (d *DB) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS preference (
		id UUID NOT NULL,
		user_id UUID NOT NULL,
		client TEXT NOT NULL,
		data BYTEA NOT NULL,
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_preference_key ON preference (id, user_id, client);
	`
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create preference schema")
	}
	return nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_catalog = current_database() AND table_name = 'preference' AND table_type = 'BASE TABLE')").Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}
