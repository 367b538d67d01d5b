package store

import (
	"github.com/google/uuid"
)

// Preference represents one persisted preference record.
// The composite key (ID, UserID, Client) is unique in the store; the payload
// lives in Data as an opaque blob produced by the codec.
type Preference struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Client    string
	Data      []byte
	CreatedTs int64
	UpdatedTs int64
}

// PreferenceDocument is the application-level view of a preference record.
// Fields carries the arbitrary preference values the embedding application
// stores; ID and Client mirror the key columns and are authoritative from
// the store on read.
type PreferenceDocument struct {
	ID     string
	Client string
	Fields map[string]any
}

// FindPreference specifies the exact composite key for a point lookup.
type FindPreference struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Client string
}

// FindPreferences specifies the conditions for a range lookup.
type FindPreferences struct {
	UserID uuid.UUID
}

// UpsertPreference specifies the data for inserting or fully replacing a record.
type UpsertPreference struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Client string
	Data   []byte
}

// ResolvePreferenceID maps a document id to its canonical 128-bit key.
// Ids that already parse as UUIDs are used as-is; anything else is hashed
// deterministically (UUIDv5 over the OID namespace), so the same input
// string always yields the same key.
func ResolvePreferenceID(id string) uuid.UUID {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
}
