package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Preference model related methods.
	UpsertPreference(ctx context.Context, upsert *UpsertPreference) (*Preference, error)
	UpsertPreferenceBatch(ctx context.Context, upserts []*UpsertPreference) error
	// GetPreference returns (nil, nil) when no row matches the key.
	GetPreference(ctx context.Context, find *FindPreference) (*Preference, error)
	ListPreferences(ctx context.Context, find *FindPreferences) ([]*Preference, error)
}
