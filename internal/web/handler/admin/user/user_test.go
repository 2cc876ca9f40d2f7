package user

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/controller/adminuser"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/web/session"
)

// noOpViews writes the flash message or the number of listed users.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	m, ok := data.(fiber.Map)
	if !ok {
		_, _ = io.WriteString(w, name)
		return nil
	}

	if f, ok := m["Flash"].(*session.Flash); ok && f != nil {
		_, _ = io.WriteString(w, f.Kind+":"+f.Message+"\n")
	}

	if users, ok := m["Users"].([]models.AdminUser); ok {
		for _, u := range users {
			_, _ = io.WriteString(w, u.Email+"\n")
		}
	}

	return nil
}

const signedInHeader = "X-Test-Email"

func setup(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AdminUser{}))

	users, err := adminuser.New(db)
	require.NoError(t, err)

	svc, err := auth.NewService(users, memory.New(), nil, auth.Config{Secret: []byte(strings.Repeat("k", 48))})
	require.NoError(t, err)

	_, err = svc.CreateAdmin(context.Background(), "ada@example.com", "correct horse battery")
	require.NoError(t, err)

	session.Init(memory.New(), time.Hour)

	app := fiber.New(fiber.Config{Views: noOpViews{}})
	app.Use(func(c *fiber.Ctx) error {
		if email := c.Get(signedInHeader); email != "" {
			c.Locals(auth.LocalsIdentity, auth.Identity{UserID: 1, Email: email, Role: models.RoleAdmin})
		}

		return c.Next()
	})

	var s Service
	s.Init(app, &config.Config{Title: "Folio"}, svc, users)

	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(b)
}

func registerRequest(body string, signedIn bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, APIPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if signedIn {
		req.Header.Set(signedInHeader, "ada@example.com")
	}

	return req
}

func TestCreateAPI(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name     string
		body     string
		signedIn bool
		status   int
		want     map[string]any
	}{
		{
			name:   "anonymous",
			body:   `{"email":"bob@example.com","password":"long enough"}`,
			status: http.StatusUnauthorized,
			want:   map[string]any{"error": "Unauthorized"},
		},
		{
			name:     "missing password",
			body:     `{"email":"bob@example.com"}`,
			signedIn: true,
			status:   http.StatusBadRequest,
			want:     map[string]any{"error": "Email and password are required"},
		},
		{
			name:     "too short",
			body:     `{"email":"bob@example.com","password":"short"}`,
			signedIn: true,
			status:   http.StatusBadRequest,
			want:     map[string]any{"error": "Password must be at least 8 characters long"},
		},
		{
			name:     "created",
			body:     `{"email":"Bob@Example.com","password":"long enough"}`,
			signedIn: true,
			status:   http.StatusOK,
			want:     map[string]any{"success": true, "message": auth.AdminCreatedMessage},
		},
		{
			name:     "duplicate",
			body:     `{"email":"bob@example.com","password":"long enough"}`,
			signedIn: true,
			status:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, registerRequest(tt.body, tt.signedIn))
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.want == nil {
				return
			}

			got := map[string]any{}
			require.NoError(t, json.Unmarshal([]byte(body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateFormFlash(t *testing.T) {
	app := setup(t)

	form := url.Values{"email": {"bob@example.com"}, "password": {"long enough"}}
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(signedInHeader, "ada@example.com")

	resp, _ := do(t, app, req)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get("Location"))

	list := httptest.NewRequest(http.MethodGet, Path, nil)
	list.Header.Set(signedInHeader, "ada@example.com")

	for _, c := range resp.Cookies() {
		list.AddCookie(c)
	}

	resp, body := do(t, app, list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, session.FlashSuccess+":"+auth.AdminCreatedMessage)
	assert.Contains(t, body, "ada@example.com\n")
	assert.Contains(t, body, "bob@example.com\n")
}

func TestListRequiresSession(t *testing.T) {
	app := setup(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
