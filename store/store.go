package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store/cache"
)

// Validation and corruption sentinels. Validation errors are raised before
// any I/O and are recoverable by the caller; ErrCorrupted marks a stored
// blob the codec can no longer decode and is never masked.
var (
	ErrNilDocument = errors.New("preference document is nil")
	ErrEmptyID     = errors.New("preference document id is empty")
	ErrNilBatch    = errors.New("preference batch is nil")
	ErrCorrupted   = errors.New("preference store corrupted")
)

// Store provides access to persisted preference documents.
type Store struct {
	profile *profile.Profile
	driver  Driver
	codec   Codec

	// Cache for point reads, keyed by the composite key.
	preferenceCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, codec Codec, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	return &Store{
		driver:          driver,
		codec:           codec,
		profile:         profile,
		preferenceCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop the cache cleanup goroutine.
	s.preferenceCache.Close()

	return s.driver.Close()
}

// UpsertPreference persists a single document under the (id, userID, client)
// composite key, fully replacing any prior value. Cancellation is honored
// only before I/O begins; once the write starts it runs to completion.
func (s *Store) UpsertPreference(ctx context.Context, doc *PreferenceDocument, userID uuid.UUID, client string) (*PreferenceDocument, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if doc.ID == "" {
		return nil, ErrEmptyID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := ResolvePreferenceID(doc.ID)
	data, err := s.codec.Encode(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode preference")
	}

	pref, err := s.driver.UpsertPreference(ctx, &UpsertPreference{
		ID:     id,
		UserID: userID,
		Client: client,
		Data:   data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert preference")
	}

	s.preferenceCache.Set(preferenceCacheKey(id, userID, client), pref)
	return s.documentFromPreference(pref)
}

// UpsertPreferenceBatch persists the documents atomically in one
// transaction; if any of them is invalid or any write fails, none of them
// are durably committed. Each document supplies its own client key part.
func (s *Store) UpsertPreferenceBatch(ctx context.Context, docs []*PreferenceDocument, userID uuid.UUID) error {
	if docs == nil {
		return ErrNilBatch
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	upserts := make([]*UpsertPreference, 0, len(docs))
	for i, doc := range docs {
		if doc == nil {
			return errors.Wrapf(ErrNilDocument, "batch document %d", i)
		}
		if doc.ID == "" {
			return errors.Wrapf(ErrEmptyID, "batch document %d", i)
		}
		data, err := s.codec.Encode(doc)
		if err != nil {
			return errors.Wrapf(err, "failed to encode batch document %d", i)
		}
		upserts = append(upserts, &UpsertPreference{
			ID:     ResolvePreferenceID(doc.ID),
			UserID: userID,
			Client: doc.Client,
			Data:   data,
		})
	}

	if err := s.driver.UpsertPreferenceBatch(ctx, upserts); err != nil {
		return errors.Wrap(err, "failed to upsert preference batch")
	}

	for _, upsert := range upserts {
		s.preferenceCache.Delete(preferenceCacheKey(upsert.ID, upsert.UserID, upsert.Client))
	}
	return nil
}

// GetPreference returns the document stored under the composite key.
// Absence is not an error: a miss yields a fresh empty document whose ID is
// the canonical form of the requested id.
func (s *Store) GetPreference(ctx context.Context, id string, userID uuid.UUID, client string) (*PreferenceDocument, error) {
	resolved := ResolvePreferenceID(id)

	if v, ok := s.preferenceCache.Get(preferenceCacheKey(resolved, userID, client)); ok {
		if pref, ok := v.(*Preference); ok {
			return s.documentFromPreference(pref)
		}
	}

	pref, err := s.driver.GetPreference(ctx, &FindPreference{
		ID:     resolved,
		UserID: userID,
		Client: client,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get preference")
	}
	if pref == nil {
		return &PreferenceDocument{
			ID:     resolved.String(),
			Client: client,
			Fields: map[string]any{},
		}, nil
	}

	doc, err := s.documentFromPreference(pref)
	if err != nil {
		return nil, err
	}
	s.preferenceCache.Set(preferenceCacheKey(resolved, userID, client), pref)
	return doc, nil
}

// ListPreferences returns every document stored for the user across all
// clients. Order is not significant.
func (s *Store) ListPreferences(ctx context.Context, userID uuid.UUID) ([]*PreferenceDocument, error) {
	prefs, err := s.driver.ListPreferences(ctx, &FindPreferences{UserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list preferences")
	}

	docs := make([]*PreferenceDocument, 0, len(prefs))
	for _, pref := range prefs {
		doc, err := s.documentFromPreference(pref)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// documentFromPreference decodes a stored row. The key columns are the
// source of truth for ID and Client, overriding whatever the blob carries.
func (s *Store) documentFromPreference(pref *Preference) (*PreferenceDocument, error) {
	doc, err := s.codec.Decode(pref.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding row %s/%s/%s: %v", ErrCorrupted, pref.ID, pref.UserID, pref.Client, err)
	}
	doc.ID = pref.ID.String()
	doc.Client = pref.Client
	return doc, nil
}

func preferenceCacheKey(id, userID uuid.UUID, client string) string {
	return userID.String() + "/" + client + "/" + id.String()
}
