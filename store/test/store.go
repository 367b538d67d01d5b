package test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store"
	"github.com/hrygo/prefstore/store/db"
)

// NewTestingStore creates a store over a fresh sqlite backing file in a
// temporary directory. Set POSTGRES_TEST_DSN to run the same tests against
// PostgreSQL instead.
func NewTestingStore(t *testing.T) *store.Store {
	p := getTestingProfile(t)
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	ts := store.New(driver, store.NewJSONCodec(), p)
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return ts
}

func getTestingProfile(t *testing.T) *profile.Profile {
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   t.TempDir(),
	}
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		p.Driver = "postgres"
		p.DSN = dsn
	}
	require.NoError(t, p.Validate())
	return p
}
