package session

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/dsn"
)

// NewStorage opens the key value storage holding session records and flash data.
func NewStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Session.Driver {
	case config.SessionMemory:
		return memory.New(), nil
	case config.SessionRedis:
		return NewRedisStorage(cfg.Session.RedisURL)
	case config.SessionPostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.URI(cfg),
			Table:         cfg.Session.Table,
		}), nil
	case config.SessionMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         cfg.Session.Table,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownSessionDriver, cfg.Session.Driver)
	}
}
