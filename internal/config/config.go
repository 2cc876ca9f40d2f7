// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "FOLIO_CONFIG_JSON"

// Storage drivers.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Session storage drivers.
const (
	SessionMemory   = "memory"
	SessionRedis    = "redis"
	SessionPostgres = "postgres"
	SessionMySQL    = "mysql"
)

// Defaults applied by validate.
const (
	DefaultShutDownTime      = 5
	DefaultSessionExpiry     = 24 * time.Hour
	DefaultCookieName        = "admin_session"
	DefaultResetTokenTTL     = 15 * time.Minute
	DefaultMinPasswordLength = 8
	DefaultUploadPrefix      = "uploads"
	DefaultLocalPath         = "./media"
	DefaultPageKey           = "home"
	DefaultSessionTable      = "folio_sessions"
	DefaultBodyLimit         = 10 * 1024 * 1024
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings folio can not start without and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	c.Webserver.URL = strings.TrimRight(c.Webserver.URL, "/")

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = DefaultShutDownTime
	}

	if c.Webserver.BodyLimit == 0 {
		c.Webserver.BodyLimit = DefaultBodyLimit
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = DefaultCookieName
	}

	if c.Auth.ResetTokenTTL == 0 {
		c.Auth.ResetTokenTTL = DefaultResetTokenTTL
	}

	if c.Auth.MinPasswordLength == 0 {
		c.Auth.MinPasswordLength = DefaultMinPasswordLength
	}

	if c.Site.PageKey == "" {
		c.Site.PageKey = DefaultPageKey
	}

	if err := validateStorage(&c.Storage); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return errors.Wrap(validateSession(&c.Session), invalidErrMessage)
}

func validateStorage(s *Storage) error {
	if s.Prefix == "" {
		s.Prefix = DefaultUploadPrefix
	}

	s.Prefix = strings.Trim(s.Prefix, "/")

	switch strings.ToLower(s.Driver) {
	case "", StorageLocal:
		s.Driver = StorageLocal
		if s.LocalPath == "" {
			s.LocalPath = DefaultLocalPath
		}
	case StorageS3, StorageMinio:
		s.Driver = strings.ToLower(s.Driver)
		if s.Bucket == "" {
			return ErrMissingBucket
		}
	default:
		return ErrUnknownStorageDriver
	}

	return nil
}

func validateSession(s *SessionStorage) error {
	switch strings.ToLower(s.Driver) {
	case "":
		s.Driver = SessionMemory
	case SessionMemory, SessionRedis, SessionPostgres, SessionMySQL:
		s.Driver = strings.ToLower(s.Driver)
	default:
		return ErrUnknownSessionDriver
	}

	if s.Table == "" {
		s.Table = DefaultSessionTable
	}

	return nil
}
