package config

import (
	"time"

	"github.com/folio-cms/folio/internal/logger"
)

// Session settings of the admin cookie.
type Session struct {
	ExpiryTime time.Duration
	CookieName string // defaults to admin_session
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
	Session   SessionStorage
	Storage   Storage
	Mail      Mail
	Site      Site
}

// DB holds the database connection and pool settings.
type DB struct {
	GormEngine string // sqlite, postgres or mysql
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // file name for sqlite
	Extras     string // appended to the dsn, e.g. sslmode=disable

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver, used for reset links
	BodyLimit      int     // request body limit in bytes, bounds uploads
	Session        Session // session settings
}

// Auth settings of the local admin login.
type Auth struct {
	TokenSecret       string // HS256 signing secret; generated and stored in settings when empty
	ResetTokenTTL     time.Duration
	MinPasswordLength int
}

// SessionStorage selects where server side session records live.
type SessionStorage struct {
	Driver   string // memory, redis, postgres or mysql
	RedisURL string
	Table    string // table for the sql drivers
}

// Storage selects and configures the blob store for uploads.
type Storage struct {
	Driver        string // local, s3 or minio
	Bucket        string
	Prefix        string // object key prefix, defaults to uploads
	PublicBaseURL string // base for public object urls
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	LocalPath     string // directory of the local driver, served under /media
}

// Mail configures the SMTP notifier. An empty Host logs mails instead of sending them.
type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Site settings of the public page.
type Site struct {
	PageKey string // page rendered on /, defaults to home
}
