package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/folio-cms/folio/internal/logger/adapter/fiber"

	"github.com/folio-cms/folio/internal/logger"
)

// expectedLoggerJSONFormat implements loggers default json format.
type expectedLoggerJSONFormat struct {
	IP           net.IP    `json:"IP"`
	Status       int       `json:"status"`
	XPerformance float32   `json:"X-Performance"`
	URI          string    `json:"URI"`
	Method       string    `json:"method"`
	Host         string    `json:"host"`
	User         string    `json:"user"`
	Time         time.Time `json:"time"`
}

type testUser string

func (u testUser) String() string { return string(u) }

var consoleJSON = logger.Log{ //nolint:gochecknoglobals
	EnableAccessLogToConsole: true,
	DisableCheckAlive:        true,
	Console:                  logger.Console{Enabled: true},
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *expectedLoggerJSONFormat
	}{
		{
			name:       "empty no output at all",
			targetPath: "/",
		},
		{
			name:       "get / log to console json",
			targetPath: "/",
			config:     adapter.Config{Config: consoleJSON},
			want:       &expectedLoggerJSONFormat{Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string kept",
			targetPath: "/?section=hero",
			config:     adapter.Config{Config: consoleJSON},
			want: &expectedLoggerJSONFormat{
				Status: 200, URI: "/?section=hero", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "unknown route",
			targetPath: "/admin//nothing",
			config:     adapter.Config{Config: consoleJSON},
			want: &expectedLoggerJSONFormat{
				Status: 404, URI: "/admin//nothing", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "check alive suppressed",
			targetPath: "/checkalive",
			config:     adapter.Config{Config: consoleJSON, CheckAliveURI: "/checkalive"},
		},
		{
			name:       "user from locals",
			targetPath: "/admin/dashboard",
			config:     adapter.Config{Config: consoleJSON, UserLocal: "user", Metrics: true},
			want: &expectedLoggerJSONFormat{
				Status: 200, URI: "/admin/dashboard", Method: fiber.MethodGet, Host: "example.com", User: "ada@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := testMiddlewareHelper(t, tt.targetPath, tt.config)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, output)

				return
			}

			require.NotEmpty(t, output)

			var decoded expectedLoggerJSONFormat
			require.NoError(t, json.Unmarshal([]byte(output), &decoded))

			assert.Equal(t, tt.want.Host, decoded.Host)
			assert.Equal(t, tt.want.Method, decoded.Method)
			assert.Equal(t, tt.want.Status, decoded.Status)
			assert.Equal(t, tt.want.URI, decoded.URI)
			assert.Equal(t, tt.want.User, decoded.User)
		})
	}
}

func testMiddlewareHelper(t *testing.T, targetPath string, adapterConfig adapter.Config) (string, error) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", testUser("ada@example.com"))

		return c.Next()
	})
	app.Use(adapter.New(adapterConfig))

	ok := func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	}
	app.Get("/", ok)
	app.Get("/checkalive", ok)
	app.Get("/admin/dashboard", ok)

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), 100000)
	if err != nil {
		_ = w.Close()
		os.Stdout = stdout
		os.Stderr = stderr

		return "", err
	}

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout // restoring the real stdout
	os.Stderr = stderr // restoring the real stderr

	return <-outC, nil
}
