package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/content"
)

func TestFor(t *testing.T) {
	for _, key := range Order {
		t.Run(key, func(t *testing.T) {
			doc, ok := For(key)
			require.True(t, ok)
			assert.NotEmpty(t, doc)
			assert.NotEmpty(t, content.EditableFields(content.Parse(doc)))
		})
	}

	_, ok := For("unknown")
	assert.False(t, ok)
}

func TestFor_ReturnsCopies(t *testing.T) {
	first, _ := For(KeyHero)
	first["title"] = "changed"
	first["stats"].([]any)[0].(map[string]any)["value"] = "0"

	second, _ := For(KeyHero)
	assert.Equal(t, "Processing Solutions *Made Easy*", second["title"])
	assert.Equal(t, "1K+", second["stats"].([]any)[0].(map[string]any)["value"])
}

func TestSections(t *testing.T) {
	secs := Sections()
	require.Len(t, secs, len(Order))

	for i, sec := range secs {
		assert.Equal(t, Order[i], sec.SectionKey)
		assert.Equal(t, PageHome, sec.PageKey)
		assert.Equal(t, i+1, sec.OrderIndex)
		assert.True(t, sec.IsVisible)
		assert.Empty(t, sec.ID)
	}
}

func TestShapesMatchWidgets(t *testing.T) {
	hero, _ := For(KeyHero)
	assert.Equal(t, content.KindImage, content.Classify("portrait_image", hero["portrait_image"]))
	assert.Equal(t, content.KindObjectList, content.Classify("stats", hero["stats"]))

	certs, _ := For(KeyCertifications)
	assert.Equal(t, content.KindScalarList, content.Classify("list", certs["list"]))

	about, _ := For(KeyAbout)
	assert.Equal(t, content.KindLongText, content.Classify("heading", about["heading"]))
}
