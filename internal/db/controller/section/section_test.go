package section

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.ContentSection{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedSections(t *testing.T, g *Gateway, secs ...content.Section) []content.Section {
	t.Helper()

	out := make([]content.Section, 0, len(secs))

	for _, sec := range secs {
		stored, err := g.Insert(context.Background(), sec)
		require.NoError(t, err, "failed to seed section")

		out = append(out, stored)
	}

	return out
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestList(t *testing.T) {
	g, err := New(setupTestDB(t))
	require.NoError(t, err)

	seedSections(t, g,
		content.Section{SectionKey: "contact", PageKey: "home", OrderIndex: 9, IsVisible: true, Payload: content.Document{"label": "c"}},
		content.Section{SectionKey: "hero", PageKey: "home", OrderIndex: 1, IsVisible: true, Payload: content.Document{"title": "h"}},
		content.Section{SectionKey: "about", PageKey: "home", OrderIndex: 4, IsVisible: false, Payload: content.Document{"title": "a"}},
		content.Section{SectionKey: "intro", PageKey: "blog", OrderIndex: 2, IsVisible: true, Payload: content.Document{}},
	)

	testCases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all pages", filter: Filter{}, want: []string{"hero", "intro", "about", "contact"}},
		{name: "home page", filter: Filter{PageKey: "home"}, want: []string{"hero", "about", "contact"}},
		{name: "home visible", filter: Filter{PageKey: "home", VisibleOnly: true}, want: []string{"hero", "contact"}},
		{name: "unknown page", filter: Filter{PageKey: "nope"}, want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			secs, err := g.List(context.Background(), tc.filter)
			require.NoError(t, err)

			keys := make([]string, 0, len(secs))
			for _, s := range secs {
				keys = append(keys, s.SectionKey)
			}

			assert.Equal(t, tc.want, keys)
		})
	}
}

func TestList_NonObjectPayload(t *testing.T) {
	db := setupTestDB(t)
	g, err := New(db)
	require.NoError(t, err)

	seedSections(t, g, content.Section{SectionKey: "hero", PageKey: "home", OrderIndex: 1, IsVisible: true, Payload: content.Document{"title": "ok"}})

	require.NoError(t, db.Create(&models.ContentSection{
		SectionKey: "tags", PageKey: "home", OrderIndex: 2, IsVisible: true,
		ContentJSON: datatypes.JSON(`["a","b"]`),
	}).Error)
	require.NoError(t, db.Create(&models.ContentSection{
		SectionKey: "broken", PageKey: "home", OrderIndex: 3, IsVisible: true,
		ContentJSON: datatypes.JSON(`{"title":`),
	}).Error)

	secs, err := g.List(context.Background(), Filter{PageKey: "home"})
	require.NoError(t, err)
	require.Len(t, secs, 2)

	assert.Equal(t, "hero", secs[0].SectionKey)
	assert.False(t, secs[0].Payload.Raw())
	assert.Equal(t, "ok", secs[0].Payload["title"])

	assert.Equal(t, "tags", secs[1].SectionKey)
	assert.True(t, secs[1].Payload.Raw())

	raw, err := secs[1].Payload.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(raw))

	// saving the wrapped payload back keeps the stored array
	updated, err := g.UpdatePayload(context.Background(), secs[1].ID, secs[1].Payload)
	require.NoError(t, err)
	assert.True(t, updated.Payload.Raw())
}

func TestUpdatePayload_KeepsLargeNumbers(t *testing.T) {
	db := setupTestDB(t)
	g, err := New(db)
	require.NoError(t, err)

	row := models.ContentSection{
		SectionKey: "contact", PageKey: "home", OrderIndex: 1, IsVisible: true,
		ContentJSON: datatypes.JSON(`{"title":"x","phone":9007199254740993,"ratio":1.10}`),
	}
	require.NoError(t, db.Create(&row).Error)

	sec, err := g.Get(context.Background(), row.ID)
	require.NoError(t, err)

	sec.Payload["title"] = "y"

	updated, err := g.UpdatePayload(context.Background(), row.ID, sec.Payload)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), updated.Payload["phone"])
	assert.Equal(t, json.Number("1.10"), updated.Payload["ratio"])
	assert.Equal(t, "y", updated.Payload["title"])
}

func TestUpdatePayload(t *testing.T) {
	g, err := New(setupTestDB(t))
	require.NoError(t, err)

	stored := seedSections(t, g, content.Section{
		SectionKey: "hero", PageKey: "home", OrderIndex: 1, IsVisible: true,
		Payload: content.Document{"title": "old", "count": float64(2)},
	})
	id := stored[0].ID
	require.NotEmpty(t, id)

	updated, err := g.UpdatePayload(context.Background(), id, content.Document{"title": "new", "count": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "new", updated.Payload["title"])
	assert.Equal(t, json.Number("2"), updated.Payload["count"])
	assert.Equal(t, "hero", updated.SectionKey)

	// the whole payload is replaced
	updated, err = g.UpdatePayload(context.Background(), id, content.Document{"subtitle": "s"})
	require.NoError(t, err)
	assert.Equal(t, content.Document{"subtitle": "s"}, updated.Payload)
}

func TestUpdatePayload_Errors(t *testing.T) {
	g, err := New(setupTestDB(t))
	require.NoError(t, err)

	_, err = g.UpdatePayload(context.Background(), "", content.Document{})
	require.ErrorIs(t, err, ErrIDEmpty)

	_, err = g.UpdatePayload(context.Background(), "missing", content.Document{})
	require.ErrorIs(t, err, ErrSectionNotFound)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpstreamErrors(t *testing.T) {
	db := setupTestDB(t)
	g, err := New(db)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = g.List(context.Background(), Filter{})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))

	_, err = g.UpdatePayload(context.Background(), "x", content.Document{})
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
}

func TestCountAndGet(t *testing.T) {
	g, err := New(setupTestDB(t))
	require.NoError(t, err)

	n, err := g.Count(context.Background(), "home")
	require.NoError(t, err)
	assert.Zero(t, n)

	stored := seedSections(t, g, content.Section{SectionKey: "hero", PageKey: "home", Payload: content.Document{"a": "b"}})

	n, err = g.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sec, err := g.Get(context.Background(), stored[0].ID)
	require.NoError(t, err)
	assert.False(t, sec.IsVisible)
	assert.Equal(t, "b", sec.Payload["a"])

	_, err = g.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSectionNotFound)
}
