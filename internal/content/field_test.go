package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := Document{
		"photo": "/p.jpg",
		"bio":   strings.Repeat("b", 60),
		"label": "short",
		"tags":  []any{"a", float64(2)},
		"items": []any{map[string]any{"title": "x", "cover_image": "/c.jpg", "count": float64(1)}},
		"meta":  map[string]any{"note": "n"},
		"flag":  true,
	}

	fields := Parse(doc)
	require.Len(t, fields, 7)

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}

	assert.Equal(t, []string{"bio", "flag", "items", "label", "meta", "photo", "tags"}, keys)

	byKey := map[string]Field{}
	for _, f := range fields {
		byKey[f.Key] = f
	}

	assert.Equal(t, KindLongText, byKey["bio"].Kind)
	assert.Equal(t, KindImage, byKey["photo"].Kind)
	assert.Equal(t, "/p.jpg", byKey["photo"].Text)

	assert.Equal(t, KindUnsupported, byKey["flag"].Kind)
	assert.Equal(t, true, byKey["flag"].Raw)

	tags := byKey["tags"]
	require.Len(t, tags.Items, 2)
	assert.Equal(t, KindShortText, tags.Items[0].Kind)
	assert.Equal(t, KindUnsupported, tags.Items[1].Kind)

	items := byKey["items"]
	require.Len(t, items.Rows, 1)
	require.Len(t, items.Rows[0].Fields, 3)
	assert.Equal(t, "count", items.Rows[0].Fields[0].Key)
	assert.Equal(t, KindUnsupported, items.Rows[0].Fields[0].Kind)
	assert.Equal(t, KindImage, items.Rows[0].Fields[1].Kind)
	assert.Equal(t, KindShortText, items.Rows[0].Fields[2].Kind)

	meta := byKey["meta"]
	require.Len(t, meta.Fields, 1)
	assert.Equal(t, "n", meta.Fields[0].Text)

	editable := EditableFields(fields)
	assert.Len(t, editable, 6)
}

func TestParse_ListItemsUseParentKey(t *testing.T) {
	fields := Parse(Document{"gallery_images": []any{"/a.jpg"}})

	require.Len(t, fields, 1)
	require.Len(t, fields[0].Items, 1)
	assert.Equal(t, KindImage, fields[0].Items[0].Kind)
}

func TestDocumentRoundTrip(t *testing.T) {
	raw := []byte(`{"title":"x","count":3,"visible":false,"nothing":null,"items":[{"a":"b"}]}`)

	doc, err := DecodeDocument(raw)
	require.NoError(t, err)

	sec := SetField(Section{Payload: doc}, "title", "y")

	out, err := sec.Payload.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"y","count":3,"visible":false,"nothing":null,"items":[{"a":"b"}]}`, string(out))
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(nil)
	require.NoError(t, err)
	assert.Empty(t, doc)

	doc, err = DecodeDocument([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, doc)

	_, err = DecodeDocument([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrPayloadNotObject)

	_, err = DecodeDocument([]byte(`{`))
	require.Error(t, err)

	_, err = DecodeDocument([]byte(`{"a":"b"} {"c":"d"}`))
	require.ErrorIs(t, err, ErrTrailingData)
}

func TestDocumentRoundTrip_KeepsNumbers(t *testing.T) {
	raw := []byte(`{"title":"x","phone":9007199254740993,"ratio":1.10,"big":1e400}`)

	doc, err := DecodeDocument(raw)
	require.NoError(t, err)

	fields := Parse(doc)
	for _, f := range fields {
		if f.Key != "title" {
			assert.Equal(t, KindUnsupported, f.Kind, f.Key)
		}
	}

	sec := SetField(Section{Payload: doc}, "title", "y")

	out, err := sec.Payload.Encode()
	require.NoError(t, err)

	assert.Contains(t, string(out), `"phone":9007199254740993`)
	assert.Contains(t, string(out), `"ratio":1.10`)
	assert.Contains(t, string(out), `"big":1e400`)
	assert.Contains(t, string(out), `"title":"y"`)
}

func TestLoadDocument(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "object", raw: `{"title":"ok"}`, want: `{"title":"ok"}`},
		{name: "array", raw: `["a","b"]`, want: `["a","b"]`},
		{name: "string", raw: `"just text"`, want: `"just text"`},
		{name: "number", raw: `12345678901234567890`, want: `12345678901234567890`},
		{name: "null", raw: `null`, want: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := LoadDocument([]byte(tt.raw))
			require.NoError(t, err)

			out, err := doc.Encode()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}

	_, err := LoadDocument([]byte(`{`))
	require.Error(t, err)
}

func TestRawDocument(t *testing.T) {
	doc, err := LoadDocument([]byte(`["a","b"]`))
	require.NoError(t, err)
	require.True(t, doc.Raw())

	fields := Parse(doc)
	require.Len(t, fields, 1)
	assert.Equal(t, KindUnsupported, fields[0].Kind)
	assert.Empty(t, EditableFields(fields))

	sec := Section{ID: "s1", Payload: doc}

	got, err := Apply(sec, Op{Type: OpAddField, Key: "title", Kind: KindShortText})
	require.ErrorIs(t, err, ErrRawPayload)
	assert.Equal(t, sec, got)

	assert.False(t, Document{"title": "x"}.Raw())
}

func TestCloneValue(t *testing.T) {
	orig := map[string]any{"list": []any{map[string]any{"k": "v"}}, "strs": []string{"a"}}
	cp := CloneValue(orig).(map[string]any)

	cp["list"].([]any)[0].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", orig["list"].([]any)[0].(map[string]any)["k"])
	assert.Equal(t, []any{"a"}, cp["strs"])
}
