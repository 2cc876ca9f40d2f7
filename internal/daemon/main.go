// Package daemon wires configuration, database and backends into the web service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/folio-cms/folio/internal/blob"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/controller/signingkey"
	"github.com/folio-cms/folio/internal/db/dsn"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/logger"
	"github.com/folio-cms/folio/internal/logger/adapter/stdlogger"
	"github.com/folio-cms/folio/internal/mail"
	"github.com/folio-cms/folio/internal/web"
	"github.com/folio-cms/folio/internal/web/session"
)

const slowQueryThreshold = 500 * time.Millisecond

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it is shut down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// OpenDB opens the configured database and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.DevMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(stdlogger.NewWithComponent("gorm"), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = configurePool(db, cfg.DB); err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func configurePool(db *gorm.DB, cfg config.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return nil
}

// SigningSecret returns the configured token secret, or the one stored in the settings table.
func SigningSecret(ctx context.Context, cfg *config.Config, db *gorm.DB) ([]byte, error) {
	if cfg.Auth.TokenSecret != "" {
		return []byte(cfg.Auth.TokenSecret), nil
	}

	return signingkey.LoadOrCreate(ctx, db) //nolint:wrapcheck
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")

		return nil, ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	dlog := logger.Component("daemon")

	if n, err := Seed(ctx, db, cfg.Site.PageKey); err != nil {
		dlog.Warn().Err(err).Msg("seeding default sections failed")
	} else if n > 0 {
		dlog.Info().Int("sections", n).Str("page", cfg.Site.PageKey).Msg("seeded default sections")
	}

	secret, err := SigningSecret(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewStorage(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	svc, err := web.New(cfg, db, web.Backends{
		Sessions: sessions,
		Blobs:    blobs,
		Notifier: mail.New(cfg.Mail),
		Secret:   secret,
	})
	if err != nil {
		return nil, err
	}

	// no load balancer drains a dev instance
	svc.FastShutDown(cfg.DevMode)

	dlog.Info().
		Str("db", cfg.DB.GormEngine).
		Str("sessions", cfg.Session.Driver).
		Str("storage", cfg.Storage.Driver).
		Msg("backends ready")

	return &Daemon{cfg: cfg, webService: svc}, nil
}
