package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store"
	"github.com/hrygo/prefstore/store/db/postgres"
	"github.com/hrygo/prefstore/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the reference driver: a single backing file owned by this
// component, with delete-and-recreate corruption recovery. PostgreSQL is
// offered for deployments that embed the store next to an existing server;
// it shares the schema and upsert semantics but has no file to recover.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
