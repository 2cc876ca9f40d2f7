// Package web wires the fiber application: templates, static files, middleware and handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/blob"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/controller/adminuser"
	"github.com/folio-cms/folio/internal/db/controller/media"
	"github.com/folio-cms/folio/internal/db/controller/section"
	"github.com/folio-cms/folio/internal/editor"
	fiberlog "github.com/folio-cms/folio/internal/logger/adapter/fiber"
	"github.com/folio-cms/folio/internal/mail"
	"github.com/folio-cms/folio/internal/upload"
	"github.com/folio-cms/folio/internal/web/handler/admin/user"
	"github.com/folio-cms/folio/internal/web/handler/api/contentapi"
	"github.com/folio-cms/folio/internal/web/handler/api/uploadapi"
	"github.com/folio-cms/folio/internal/web/handler/dashboard"
	"github.com/folio-cms/folio/internal/web/handler/home"
	"github.com/folio-cms/folio/internal/web/handler/login"
	"github.com/folio-cms/folio/internal/web/handler/logout"
	"github.com/folio-cms/folio/internal/web/handler/password"
	authmiddleware "github.com/folio-cms/folio/internal/web/middleware/auth"
	"github.com/folio-cms/folio/internal/web/session"
)

const (
	// CheckAlivePath answers 200 while serving and 503 during shutdown.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// MediaPath serves the files of the local blob store.
	MediaPath = "/media"
)

// Backends are the external collaborators opened by the daemon.
type Backends struct {
	// Sessions holds session records and flash data.
	Sessions fiber.Storage
	// Blobs stores uploaded images.
	Blobs blob.Store
	// Notifier delivers reset mails.
	Notifier mail.Notifier
	// Secret signs the auth tokens.
	Secret []byte
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	editors      *editor.Registry
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// FastShutDown skips the checkalive grace period on shutdown.
func (s *Service) FastShutDown(fast bool) {
	s.fastShutDown = fast
}

// Auth returns the auth service.
func (s *Service) Auth() *auth.Service {
	return s.authService
}

// newTemplateEngine loads the embedded templates, or the local ones in dev mode.
func newTemplateEngine(cfg *config.Config) *html.Engine {
	templateEngine := html.NewFileSystem(templatesFS(), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.Reload(true)

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("fname", dashboard.FieldName)
	templateEngine.AddFunc("filename", dashboard.FileFieldName)
	templateEngine.AddFunc("json", func(v any) string {
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(out)
	})
	templateEngine.AddFunc("lines", func(s string) []string {
		return strings.Split(s, "\n")
	})
	templateEngine.AddFunc("year", func() int {
		return time.Now().Year()
	})
	templateEngine.AddFunc("dict", dict)
	templateEngine.AddFunc("emphasis", emphasis)
	templateEngine.AddFunc("field", field)
	templateEngine.AddFunc("list", list)
	templateEngine.AddFunc("text", text)

	return templateEngine
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, backends Backends) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if backends.Sessions == nil || backends.Blobs == nil {
		return nil, errors.New("session storage and blob store are required")
	}

	users, err := adminuser.New(db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	sections, err := section.New(db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	library, err := media.New(db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	authService, err := auth.NewService(users, backends.Sessions, backends.Notifier, auth.Config{
		Secret:            backends.Secret,
		SessionTTL:        cfg.Webserver.Session.ExpiryTime,
		ResetTTL:          cfg.Auth.ResetTokenTTL,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		SiteURL:           cfg.Webserver.URL,
		SiteTitle:         cfg.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	editors := editor.NewRegistry(sections, cfg.Webserver.Session.ExpiryTime)
	uploader := upload.New(backends.Blobs, library, cfg.Storage.Prefix)

	session.Init(backends.Sessions, cfg.Webserver.Session.ExpiryTime)

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			Views:          newTemplateEngine(cfg),
		},
	)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
		editors:     editors,
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserLocal:     auth.LocalsIdentity,
		Metrics:       true,
	}))

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:   staticFS(),
				Browse: cfg.Webserver.BrowseStatic,
			},
		),
	)

	if local, ok := backends.Blobs.(*blob.Local); ok {
		app.Static(MediaPath, local.Root(), fiber.Static{MaxAge: 3600}) //nolint:mnd
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// access gate for /admin and /api/admin
	app.Use(authmiddleware.New(authmiddleware.Config{
		CookieName: cfg.Webserver.Session.CookieName,
		Verifier:   authService,
	}))

	// init handlers
	home.Handler.Init(app, cfg, sections)
	login.Handler.Init(app, cfg, authService)
	logout.Handler.Init(app, cfg, authService, editors)
	password.Handler.Init(app, cfg, authService)
	dashboard.Handler.Init(app, cfg, editors, uploader, library)
	user.Handler.Init(app, cfg, authService, users)
	contentapi.Handler.Init(app, cfg, sections)
	uploadapi.Handler.Init(app, cfg, uploader)

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// cleanPath folds repeated slashes and dot segments before routing.
func cleanPath(c *fiber.Ctx) error {
	p := c.Path()
	if cleaned := path.Clean(p); cleaned != p && !strings.HasSuffix(p, "/") {
		c.Path(cleaned)
	} else if strings.Contains(p, "//") {
		c.Path(path.Clean(p) + "/")
	}

	return c.Next()
}
