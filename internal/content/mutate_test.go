package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSection(payload Document) Section {
	return Section{ID: "sec-1", SectionKey: "hero", PageKey: "home", OrderIndex: 1, IsVisible: true, Payload: payload}
}

func TestNormalizeFieldName(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{raw: "Title", want: "title"},
		{raw: "Hero  Image", want: "hero_image"},
		{raw: "  footer\ttext \n", want: "footer_text"},
		{raw: "a b\tc", want: "a_b_c"},
		{raw: "   ", want: ""},
		{raw: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeFieldName(tc.raw))
		})
	}
}

func TestSetField(t *testing.T) {
	in := newSection(Document{"title": "old"})
	value := []any{"a", "b"}

	out := SetField(in, "tags", value)

	assert.Equal(t, value, out.Payload["tags"])
	assert.Equal(t, "old", out.Payload["title"])
	assert.NotContains(t, in.Payload, "tags", "input must not change")

	// the stored value is a copy of the argument
	value[0] = "changed"
	assert.Equal(t, "a", out.Payload["tags"].([]any)[0])
}

func TestAddField(t *testing.T) {
	in := newSection(Document{})

	testCases := []struct {
		name string
		raw  string
		kind Kind
		key  string
		want any
	}{
		{name: "short text", raw: "Sub Title", kind: KindShortText, key: "sub_title", want: ""},
		{name: "long text", raw: "Bio", kind: KindLongText, key: "bio", want: ""},
		{name: "image", raw: "Logo", kind: KindImage, key: "logo", want: ""},
		{name: "scalar list", raw: "Tags", kind: KindScalarList, key: "tags", want: []any{}},
		{name: "object list", raw: "Items", kind: KindObjectList, key: "items", want: []any{}},
		{name: "nested", raw: "Meta Data", kind: KindNested, key: "meta_data", want: map[string]any{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := AddField(in, tc.raw, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Payload[tc.key])
			assert.Empty(t, in.Payload)
		})
	}
}

func TestAddField_Errors(t *testing.T) {
	in := newSection(Document{"title": "x"})

	out, err := AddField(in, "  ", KindShortText)
	require.ErrorIs(t, err, ErrEmptyFieldName)
	assert.Equal(t, in, out)

	_, err = AddField(in, "name", KindUnsupported)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestAddField_OverwritesExisting(t *testing.T) {
	in := newSection(Document{"title": "keep me?"})

	out, err := AddField(in, "Title", KindShortText)
	require.NoError(t, err)

	out, err = AddField(out, "TITLE", KindShortText)
	require.NoError(t, err)

	assert.Len(t, out.Payload, 1)
	assert.Equal(t, "", out.Payload["title"])
}

func TestRemoveField(t *testing.T) {
	in := newSection(Document{"a": "1", "b": "2"})
	out := RemoveField(in, "a")

	assert.Equal(t, Document{"b": "2"}, out.Payload)
	assert.Len(t, in.Payload, 2)
}

func TestSetArrayItem(t *testing.T) {
	in := newSection(Document{"tags": []any{"a", "b"}, "title": "x"})

	out, err := SetArrayItem(in, "tags", 1, "z")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "z"}, out.Payload["tags"])
	assert.Equal(t, []any{"a", "b"}, in.Payload["tags"])

	_, err = SetArrayItem(in, "tags", 2, "c")
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = SetArrayItem(in, "tags", -1, "c")
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = SetArrayItem(in, "title", 0, "c")
	require.ErrorIs(t, err, ErrNotAnArray)

	_, err = SetArrayItem(in, "missing", 0, "c")
	require.ErrorIs(t, err, ErrNotAnArray)
}

func TestSetArrayItemField(t *testing.T) {
	in := newSection(Document{"items": []any{
		map[string]any{"title": "x", "link": "/a"},
		"scalar",
	}})

	out, err := SetArrayItemField(in, "items", 0, "title", "y")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "y", "link": "/a"}, out.Payload["items"].([]any)[0])
	assert.Equal(t, "x", in.Payload["items"].([]any)[0].(map[string]any)["title"])

	_, err = SetArrayItemField(in, "items", 1, "title", "y")
	require.ErrorIs(t, err, ErrItemNotAMapping)

	_, err = SetArrayItemField(in, "items", 5, "title", "y")
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAppendArrayItem(t *testing.T) {
	testCases := []struct {
		name    string
		payload Document
		want    []any
	}{
		{
			name:    "object rows copy keys of element zero",
			payload: Document{"items": []any{map[string]any{"a": "x", "b": "y"}}},
			want:    []any{map[string]any{"a": "x", "b": "y"}, map[string]any{"a": "", "b": ""}},
		},
		{
			name:    "scalar list gets empty string",
			payload: Document{"items": []any{"a", "b"}},
			want:    []any{"a", "b", ""},
		},
		{
			name:    "empty array gets empty string",
			payload: Document{"items": []any{}},
			want:    []any{""},
		},
		{
			name:    "missing field starts a list",
			payload: Document{},
			want:    []any{""},
		},
		{
			name:    "only element zero decides the shape",
			payload: Document{"items": []any{"a", map[string]any{"k": "v"}}},
			want:    []any{"a", map[string]any{"k": "v"}, ""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := newSection(tc.payload)

			out, err := AppendArrayItem(in, "items")
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Payload["items"])
		})
	}
}

func TestAppendArrayItem_NotAnArray(t *testing.T) {
	in := newSection(Document{"items": "text"})

	_, err := AppendArrayItem(in, "items")
	require.ErrorIs(t, err, ErrNotAnArray)
}

func TestAppendArrayItem_DoesNotAliasFirstRow(t *testing.T) {
	in := newSection(Document{"items": []any{map[string]any{"title": "x"}}})

	out, err := AppendArrayItem(in, "items")
	require.NoError(t, err)

	out, err = SetArrayItemField(out, "items", 1, "title", "new")
	require.NoError(t, err)

	rows := out.Payload["items"].([]any)
	assert.Equal(t, "x", rows[0].(map[string]any)["title"])
	assert.Equal(t, "new", rows[1].(map[string]any)["title"])
}

func TestRemoveArrayItem(t *testing.T) {
	in := newSection(Document{"tags": []any{"a", "b", "c", "d"}})

	out, err := RemoveArrayItem(in, "tags", 1)
	require.NoError(t, err)

	got := out.Payload["tags"].([]any)
	assert.Len(t, got, 3)
	assert.Equal(t, []any{"a", "c", "d"}, got)
	assert.Len(t, in.Payload["tags"], 4)

	_, err = RemoveArrayItem(in, "tags", 4)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNestedFields(t *testing.T) {
	in := newSection(Document{"meta": map[string]any{"a": "1"}, "title": "x"})

	out, err := SetNestedField(in, "meta", "b", "2")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, out.Payload["meta"])
	assert.Equal(t, map[string]any{"a": "1"}, in.Payload["meta"])

	out, err = AddNestedField(out, "meta", "Extra Note")
	require.NoError(t, err)
	assert.Equal(t, "", out.Payload["meta"].(map[string]any)["extra_note"])

	out, err = RemoveNestedField(out, "meta", "a")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": "2", "extra_note": ""}, out.Payload["meta"])

	created, err := SetNestedField(in, "social", "twitter", "@me")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"twitter": "@me"}, created.Payload["social"])

	_, err = SetNestedField(in, "title", "a", "b")
	require.ErrorIs(t, err, ErrNotAMapping)

	_, err = AddNestedField(in, "meta", " ")
	require.ErrorIs(t, err, ErrEmptyFieldName)
}

func TestApply(t *testing.T) {
	sec := newSection(Document{"items": []any{map[string]any{"title": "x"}}})

	ops := []Op{
		{Type: OpAppendItem, Key: "items"},
		{Type: OpSetItemField, Key: "items", Index: 1, SubKey: "title", Value: "y"},
		{Type: OpAddField, Key: "Sub Title", Kind: KindShortText},
		{Type: OpSetField, Key: "sub_title", Value: "hello"},
		{Type: OpAddField, Key: "Meta", Kind: KindNested},
		{Type: OpAddNested, Key: "meta", SubKey: "Note"},
		{Type: OpSetNested, Key: "meta", SubKey: "note", Value: "n"},
		{Type: OpRemoveItem, Key: "items", Index: 0},
	}

	var err error
	for _, op := range ops {
		sec, err = Apply(sec, op)
		require.NoError(t, err, op.Type)
	}

	assert.Equal(t, Document{
		"items":     []any{map[string]any{"title": "y"}},
		"sub_title": "hello",
		"meta":      map[string]any{"note": "n"},
	}, sec.Payload)

	same, err := Apply(sec, Op{Type: "bogus"})
	require.ErrorIs(t, err, ErrUnknownOp)
	assert.Equal(t, sec, same)
}
