package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hrygo/prefstore/store"
)

const upsertPreferenceStmt = `INSERT INTO preference (id, user_id, client, data, created_ts, updated_ts)
	VALUES (%s)
	ON CONFLICT (id, user_id, client) DO UPDATE SET
		data = excluded.data,
		updated_ts = excluded.updated_ts
	RETURNING created_ts, updated_ts`

func (d *DB) UpsertPreference(ctx context.Context, upsert *store.UpsertPreference) (*store.Preference, error) {
	conn, err := d.conn(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	result := &store.Preference{
		ID:     upsert.ID,
		UserID: upsert.UserID,
		Client: upsert.Client,
		Data:   upsert.Data,
	}

	stmt := fmt.Sprintf(upsertPreferenceStmt, placeholders(6))
	if err := tx.QueryRowContext(ctx, stmt,
		upsert.ID.String(), upsert.UserID.String(), upsert.Client, upsert.Data, now, now,
	).Scan(&result.CreatedTs, &result.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

func (d *DB) UpsertPreferenceBatch(ctx context.Context, upserts []*store.UpsertPreference) error {
	conn, err := d.conn(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(upsertPreferenceStmt, placeholders(6)))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, upsert := range upserts {
		var createdTs, updatedTs int64
		if err := stmt.QueryRowContext(ctx,
			upsert.ID.String(), upsert.UserID.String(), upsert.Client, upsert.Data, now, now,
		).Scan(&createdTs, &updatedTs); err != nil {
			return fmt.Errorf("failed to upsert preference %s/%s/%s: %w", upsert.ID, upsert.UserID, upsert.Client, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *DB) GetPreference(ctx context.Context, find *store.FindPreference) (*store.Preference, error) {
	conn, err := d.conn(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	query := `SELECT id, user_id, client, data, created_ts, updated_ts FROM preference
		WHERE id = ` + placeholder(1) + ` AND user_id = ` + placeholder(2) + ` AND client = ` + placeholder(3)

	var idText, userIDText string
	result := &store.Preference{}
	if err := conn.QueryRowContext(ctx, query, find.ID.String(), find.UserID.String(), find.Client).Scan(
		&idText,
		&userIDText,
		&result.Client,
		&result.Data,
		&result.CreatedTs,
		&result.UpdatedTs,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	if result.ID, err = uuid.Parse(idText); err != nil {
		return nil, fmt.Errorf("failed to parse stored preference id %q: %w", idText, err)
	}
	if result.UserID, err = uuid.Parse(userIDText); err != nil {
		return nil, fmt.Errorf("failed to parse stored user id %q: %w", userIDText, err)
	}
	return result, nil
}

func (d *DB) ListPreferences(ctx context.Context, find *store.FindPreferences) ([]*store.Preference, error) {
	conn, err := d.conn(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	query := `SELECT id, user_id, client, data, created_ts, updated_ts FROM preference
		WHERE user_id = ` + placeholder(1)

	rows, err := conn.QueryContext(ctx, query, find.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	list := []*store.Preference{}
	for rows.Next() {
		var idText, userIDText string
		pref := &store.Preference{}
		if err := rows.Scan(
			&idText,
			&userIDText,
			&pref.Client,
			&pref.Data,
			&pref.CreatedTs,
			&pref.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		if pref.ID, err = uuid.Parse(idText); err != nil {
			return nil, fmt.Errorf("failed to parse stored preference id %q: %w", idText, err)
		}
		if pref.UserID, err = uuid.Parse(userIDText); err != nil {
			return nil, fmt.Errorf("failed to parse stored user id %q: %w", userIDText, err)
		}
		list = append(list, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}
	return list, nil
}
