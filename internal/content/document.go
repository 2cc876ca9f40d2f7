package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawKey holds a stored payload that is not a JSON object. Such a document
// is carried through unchanged and cannot be edited.
const RawKey = ""

// Document is a decoded section payload.
type Document map[string]any

// Section is one editable unit of page content.
type Section struct {
	ID         string
	SectionKey string
	PageKey    string
	OrderIndex int
	IsVisible  bool
	Payload    Document
}

// DecodeDocument parses a raw JSON payload. A JSON null or empty input gives an empty document.
// Numbers are kept as json.Number so they encode back to the same literal.
func DecodeDocument(raw []byte) (Document, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}

	switch m := v.(type) {
	case nil:
		return Document{}, nil
	case map[string]any:
		return Document(m), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrPayloadNotObject, v)
	}
}

// LoadDocument is DecodeDocument for stored rows: a payload that is valid JSON
// but not an object is wrapped under RawKey instead of failing.
func LoadDocument(raw []byte) (Document, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}

	switch m := v.(type) {
	case nil:
		return Document{}, nil
	case map[string]any:
		return Document(m), nil
	default:
		return Document{RawKey: v}, nil
	}
}

func decodeValue(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	if dec.More() {
		return nil, fmt.Errorf("decode payload: %w", ErrTrailingData)
	}

	return v, nil
}

// Raw reports whether the document wraps a non-object payload.
func (d Document) Raw() bool {
	_, ok := d[RawKey]
	return ok && len(d) == 1
}

// Encode returns the JSON form of the document. A wrapped payload encodes as itself.
func (d Document) Encode() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}

	var v any = map[string]any(d)
	if d.Raw() {
		v = d[RawKey]
	}

	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	return out, nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}

	out := make(Document, len(d))
	for k, v := range d {
		out[k] = CloneValue(v)
	}

	return out
}

// CloneValue deep copies a decoded JSON value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = CloneValue(item)
		}

		return out
	case Document:
		return map[string]any(t.Clone())
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}

		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}

		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}

		return out
	default:
		return v
	}
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	s.Payload = s.Payload.Clone()
	return s
}

// Get returns the payload value at key.
func (s Section) Get(key string) (any, bool) {
	v, ok := s.Payload[key]
	return v, ok
}
