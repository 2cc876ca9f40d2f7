// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/config"
)

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// ErrUnknownEngine is returned for an unsupported DB.GormEngine value.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Create builds the Data Source Name from the configuration.
func Create(cfg *config.Config) string {
	db := cfg.DB

	switch strings.ToLower(db.GormEngine) {
	case EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
		)
		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out
	case EngineSQLite:
		if db.Extras != "" {
			return db.Name + "?" + db.Extras
		}

		return db.Name
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.Extras,
		)
	}
}

// URI builds a URL style connection string, as used by the session storage drivers.
func URI(cfg *config.Config) string {
	db := cfg.DB

	switch strings.ToLower(db.GormEngine) {
	case EnginePostgres:
		out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", db.User, db.Password, db.Host, db.Port, db.Name)
		if db.Extras != "" {
			out += "?" + strings.ReplaceAll(db.Extras, " ", "&")
		}

		return out
	default:
		return Create(cfg)
	}
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.DB.GormEngine) {
	case EngineMySQL, "":
		return mysql.Open(Create(cfg)), nil
	case EnginePostgres:
		return postgres.Open(Create(cfg)), nil
	case EngineSQLite:
		return sqlite.Open(Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, cfg.DB.GormEngine)
	}
}
