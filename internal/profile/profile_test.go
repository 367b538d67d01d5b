package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{Data: dir}
	require.NoError(t, p.Validate())

	require.Equal(t, "dev", p.Mode)
	require.Equal(t, "sqlite", p.Driver)
	require.Equal(t, filepath.Join(dir, "prefstore_dev.db"), p.DSN)
	require.True(t, p.IsDev())
}

func TestValidateKeepsExplicitDSN(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{Mode: "prod", Driver: "sqlite", Data: dir, DSN: filepath.Join(dir, "custom.db")}
	require.NoError(t, p.Validate())

	require.Equal(t, filepath.Join(dir, "custom.db"), p.DSN)
	require.False(t, p.IsDev())
}

func TestValidateRejectsMissingDataDir(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: filepath.Join(t.TempDir(), "does-not-exist")}
	require.Error(t, p.Validate())
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PREFSTORE_MODE", "prod")
	t.Setenv("PREFSTORE_DRIVER", "postgres")
	t.Setenv("PREFSTORE_DSN", "postgres://localhost/prefs?sslmode=disable")
	t.Setenv("PREFSTORE_DATA", dir)

	p := &Profile{}
	p.FromEnv()

	require.Equal(t, "prod", p.Mode)
	require.Equal(t, "postgres", p.Driver)
	require.Equal(t, "postgres://localhost/prefs?sslmode=disable", p.DSN)
	require.Equal(t, dir, p.Data)
}
