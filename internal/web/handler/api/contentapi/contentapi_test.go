package contentapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/section"
	"github.com/folio-cms/folio/internal/db/models"
)

func setup(t *testing.T) (*fiber.App, *section.Gateway, content.Section) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContentSection{}))

	gw, err := section.New(db)
	require.NoError(t, err)

	hero, err := gw.Insert(context.Background(), content.Section{
		SectionKey: "hero", PageKey: "home", OrderIndex: 1, IsVisible: true,
		Payload: content.Document{"title": "Hello"},
	})
	require.NoError(t, err)

	app := fiber.New()

	var s Service
	s.Init(app, &config.Config{}, gw)

	return app, gw, hero
}

func put(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func TestPut(t *testing.T) {
	app, gw, hero := setup(t)

	status, body := put(t, app, `{"id":"`+hero.ID+`","content_json":{"title":"Welcome","tags":["go","fiber"]}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	rows, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)

	row := rows[0].(map[string]any)
	assert.Equal(t, hero.ID, row["id"])
	assert.Equal(t, "hero", row["section_key"])
	assert.Equal(t, map[string]any{"title": "Welcome", "tags": []any{"go", "fiber"}}, row["content_json"])

	stored, err := gw.Get(context.Background(), hero.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", stored.Payload["title"])
}

func TestPutRejects(t *testing.T) {
	app, _, hero := setup(t)

	tests := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{name: "empty body", body: `{}`, status: http.StatusBadRequest, error: MissingPayloadMessage},
		{name: "missing id", body: `{"content_json":{"a":1}}`, status: http.StatusBadRequest, error: MissingPayloadMessage},
		{name: "missing content", body: `{"id":"` + hero.ID + `"}`, status: http.StatusBadRequest, error: MissingPayloadMessage},
		{name: "null content", body: `{"id":"` + hero.ID + `","content_json":null}`, status: http.StatusBadRequest, error: MissingPayloadMessage},
		{name: "array content", body: `{"id":"` + hero.ID + `","content_json":[1,2]}`, status: http.StatusBadRequest, error: "content_json must be a JSON object"},
		{name: "unknown section", body: `{"id":"999999","content_json":{"a":1}}`, status: http.StatusNotFound, error: "section not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := put(t, app, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.error, body["error"])
		})
	}
}
