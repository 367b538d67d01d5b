package store

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Codec converts preference documents to and from the opaque byte form
// persisted in the data column. Implementations must be lossless for bytes
// they produced themselves. A decode failure on stored bytes means the row
// is corrupted; it must surface as an error, never as an empty document.
type Codec interface {
	Encode(doc *PreferenceDocument) ([]byte, error)
	Decode(data []byte) (*PreferenceDocument, error)
	Format() string
}

// JSONCodec persists documents as a flat JSON object: the id and client key
// fields plus every entry of Fields at the top level.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier.
func (c *JSONCodec) Format() string {
	return "json"
}

func (c *JSONCodec) Encode(doc *PreferenceDocument) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("cannot encode nil document")
	}

	flat := make(map[string]any, len(doc.Fields)+2)
	for k, v := range doc.Fields {
		flat[k] = v
	}
	flat["id"] = doc.ID
	flat["client"] = doc.Client

	data, err := json.Marshal(flat)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode preference document")
	}
	return data, nil
}

func (c *JSONCodec) Decode(data []byte) (*PreferenceDocument, error) {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, errors.Wrap(err, "failed to decode preference document")
	}

	doc := &PreferenceDocument{Fields: make(map[string]any, len(flat))}
	for k, v := range flat {
		switch k {
		case "id":
			if s, ok := v.(string); ok {
				doc.ID = s
			}
		case "client":
			if s, ok := v.(string); ok {
				doc.Client = s
			}
		default:
			doc.Fields[k] = v
		}
	}
	return doc, nil
}
