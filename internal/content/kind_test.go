package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value any
		want  Kind
	}{
		{name: "photo key is image", key: "photo", value: "", want: KindImage},
		{name: "src key is image", key: "src", value: "/a.jpg", want: KindImage},
		{name: "logo key is image", key: "logo", value: "x", want: KindImage},
		{name: "url key is image", key: "url", value: "https://example.com", want: KindImage},
		{name: "key containing image", key: "portrait_image", value: "/p.jpg", want: KindImage},
		{name: "image wins over long text", key: "hero_image", value: strings.Repeat("a", 80), want: KindImage},
		{name: "long string", key: "bio", value: strings.Repeat("a", 60), want: KindLongText},
		{name: "exactly fifty chars is short", key: "bio", value: strings.Repeat("a", 50), want: KindShortText},
		{name: "fifty one chars is long", key: "bio", value: strings.Repeat("a", 51), want: KindLongText},
		{name: "newline makes long text", key: "heading", value: "a\nb", want: KindLongText},
		{name: "short string", key: "label", value: "short", want: KindShortText},
		{name: "multibyte runes counted once", key: "label", value: strings.Repeat("·", 50), want: KindShortText},
		{name: "case sensitive image marker", key: "Image", value: "x", want: KindShortText},
		{name: "scalar list", key: "tags", value: []any{"a", "b"}, want: KindScalarList},
		{name: "empty list", key: "tags", value: []any{}, want: KindScalarList},
		{name: "number list", key: "years", value: []any{float64(1), float64(2)}, want: KindScalarList},
		{name: "object list", key: "items", value: []any{map[string]any{"title": "x"}}, want: KindObjectList},
		{name: "list of lists", key: "grid", value: []any{[]any{"a"}}, want: KindUnsupported},
		{name: "nested object", key: "meta", value: map[string]any{"a": "b"}, want: KindNested},
		{name: "number", key: "count", value: float64(3), want: KindUnsupported},
		{name: "boolean", key: "is_external", value: true, want: KindUnsupported},
		{name: "null", key: "nothing", value: nil, want: KindUnsupported},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := Classify(tc.key, tc.value)
			second := Classify(tc.key, tc.value)

			assert.Equal(t, tc.want, first)
			assert.Equal(t, first, second, "classification must be stable")
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "image", KindImage.String())
	assert.Equal(t, "nested-object", KindNested.String())
	assert.Equal(t, "unsupported", Kind(99).String())

	k, ok := ParseKind("object-list")
	assert.True(t, ok)
	assert.Equal(t, KindObjectList, k)

	_, ok = ParseKind("bogus")
	assert.False(t, ok)
}

func TestIsImageKey(t *testing.T) {
	assert.True(t, IsImageKey("bgimage"))
	assert.True(t, IsImageKey("url"))
	assert.False(t, IsImageKey("urls"))
	assert.False(t, IsImageKey("title"))
}
