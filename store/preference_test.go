package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolvePreferenceID(t *testing.T) {
	// Deterministic: the same foreign string always hashes to the same key.
	a := ResolvePreferenceID("abc")
	b := ResolvePreferenceID("abc")
	require.Equal(t, a, b)
	require.NotEqual(t, a, ResolvePreferenceID("abd"))

	// Matches UUIDv5 over the OID namespace.
	require.Equal(t, uuid.NewSHA1(uuid.NameSpaceOID, []byte("abc")), a)

	// A valid UUID is used as-is, canonicalized to lowercase.
	id := uuid.New()
	require.Equal(t, id, ResolvePreferenceID(id.String()))
	require.Equal(t, id, ResolvePreferenceID(strings.ToUpper(id.String())))
}
