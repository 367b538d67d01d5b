package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store"
)

func testingProfile(t *testing.T) *profile.Profile {
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	return p
}

func TestNewDBInitializesSchema(t *testing.T) {
	p := testingProfile(t)
	driver, err := NewDB(p)
	require.NoError(t, err)
	defer driver.Close()

	ok, err := driver.IsInitialized(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewDBRecoversCorruptFile(t *testing.T) {
	p := testingProfile(t)
	require.NoError(t, os.WriteFile(p.DSN, []byte("garbage"), 0600))

	driver, err := NewDB(p)
	require.NoError(t, err)
	defer driver.Close()

	// The reset store starts empty and accepts writes.
	ctx := context.Background()
	list, err := driver.ListPreferences(ctx, &store.FindPreferences{UserID: uuid.New()})
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = driver.UpsertPreference(ctx, &store.UpsertPreference{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Client: "web",
		Data:   []byte(`{}`),
	})
	require.NoError(t, err)
}

func TestNewDBFatalWhenResetFails(t *testing.T) {
	p := testingProfile(t)
	require.NoError(t, os.WriteFile(p.DSN, []byte("garbage"), 0600))

	// Recovery cannot delete the backing file, so startup must abort.
	_, err := newDB(p, afero.NewReadOnlyFs(afero.NewOsFs()))
	require.Error(t, err)
	require.Contains(t, err.Error(), "corrupted store file")
}

func TestUpsertKeepsCreatedTs(t *testing.T) {
	p := testingProfile(t)
	driver, err := NewDB(p)
	require.NoError(t, err)
	defer driver.Close()

	ctx := context.Background()
	key := &store.UpsertPreference{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Client: "web",
		Data:   []byte(`{"theme":"dark"}`),
	}
	first, err := driver.UpsertPreference(ctx, key)
	require.NoError(t, err)

	key.Data = []byte(`{"theme":"light"}`)
	second, err := driver.UpsertPreference(ctx, key)
	require.NoError(t, err)

	// The key and creation time are unchanged; only data and updated_ts move.
	require.Equal(t, first.CreatedTs, second.CreatedTs)

	got, err := driver.GetPreference(ctx, &store.FindPreference{ID: key.ID, UserID: key.UserID, Client: key.Client})
	require.NoError(t, err)
	require.Equal(t, []byte(`{"theme":"light"}`), got.Data)
}
