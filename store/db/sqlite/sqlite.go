package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store"
)

// DB wraps the single backing store file behind two handles: a read-write
// handle capped at one open connection, so writers serialize on this side of
// the driver, and a read-only handle whose connections stay unblocked under
// WAL. Every operation acquires a scoped connection from one of the two and
// releases it on return.
type DB struct {
	rw      *sql.DB
	ro      *sql.DB
	fs      afero.Fs
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	return newDB(profile, afero.NewOsFs())
}

// newDB opens the backing file and ensures the schema. If initialization
// fails (typically a corrupted or unreadable file), the file is deleted and
// creation retried exactly once; a second failure is fatal and the driver is
// never returned.
func newDB(profile *profile.Profile, fs afero.Fs) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	d := &DB{fs: fs, profile: profile}
	if err := d.open(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := d.initialize(ctx); err != nil {
		slog.Warn("preference schema initialization failed, resetting backing store",
			slog.String("dsn", profile.DSN),
			slog.String("error", err.Error()),
		)
		_ = d.closeHandles()
		if err := fs.Remove(profile.DSN); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to remove corrupted store file %s", profile.DSN)
		}
		if err := d.open(); err != nil {
			return nil, err
		}
		if err := d.initialize(ctx); err != nil {
			_ = d.closeHandles()
			slog.Error("preference schema initialization failed after store reset",
				slog.String("dsn", profile.DSN),
				slog.String("error", err.Error()),
			)
			return nil, errors.Wrap(err, "failed to initialize preference schema after store reset")
		}
	}

	return d, nil
}

func (d *DB) open() error {
	rw, err := sql.Open("sqlite", "file:"+d.profile.DSN+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return errors.Wrapf(err, "failed to open database: %s", d.profile.DSN)
	}
	// A single writer connection bounds lock duration on the file.
	rw.SetMaxOpenConns(1)

	ro, err := sql.Open("sqlite", "file:"+d.profile.DSN+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		_ = rw.Close()
		return errors.Wrapf(err, "failed to open database read-only: %s", d.profile.DSN)
	}
	ro.SetMaxOpenConns(4)

	d.rw = rw
	d.ro = ro
	return nil
}

func (d *DB) closeHandles() error {
	var firstErr error
	if d.ro != nil {
		if err := d.ro.Close(); err != nil {
			firstErr = err
		}
		d.ro = nil
	}
	if d.rw != nil {
		if err := d.rw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.rw = nil
	}
	return firstErr
}

// conn acquires a scoped connection for one logical operation. The caller
// must Close it on every exit path.
func (d *DB) conn(ctx context.Context, readOnly bool) (*sql.Conn, error) {
	if readOnly {
		return d.ro.Conn(ctx)
	}
	return d.rw.Conn(ctx)
}

// initialize creates the preference table and its unique composite index.
// Both statements are no-ops against an already-initialized store.
func (d *DB) initialize(ctx context.Context) error {
	conn, err := d.conn(ctx, false)
	if err != nil {
		return errors.Wrap(err, "failed to acquire connection")
	}
	defer conn.Close()

	schema := `
	CREATE TABLE IF NOT EXISTS preference (
		id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		client TEXT NOT NULL,
		data BLOB NOT NULL,
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_preference_key ON preference (id, user_id, client);
	`
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create preference schema")
	}
	return nil
}

func (d *DB) GetDB() *sql.DB {
	return d.rw
}

func (d *DB) Close() error {
	return d.closeHandles()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var count int
	err := d.rw.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'preference'").Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return count > 0, nil
}
