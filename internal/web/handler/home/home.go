// Package home renders the public portfolio page.
package home

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/content/defaults"
	"github.com/folio-cms/folio/internal/db/controller/section"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// TemplateName is the name of the home template.
	TemplateName = "home/home"

	listTimeout = 10 * time.Second
)

// Lister reads sections.
type Lister interface {
	List(ctx context.Context, f section.Filter) ([]content.Section, error)
}

// Block is one rendered section.
type Block struct {
	ID         string
	SectionKey string
	Fields     []content.Field
	Payload    content.Document
}

// Service is the home page handler.
type Service struct {
	handler.Service
	cfg      *config.Config
	sections Lister
	known    map[string]bool
}

// Handler is the home page handler.
var Handler = Service{}

// Init registers the public page.
func (s *Service) Init(app *fiber.App, cfg *config.Config, sections Lister) {
	if app == nil || cfg == nil || sections == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.sections = sections
	s.known = make(map[string]bool, len(defaults.Order))

	for _, key := range defaults.Order {
		s.known[key] = true
	}

	app.Get(handler.RootPath, s.Get)
}

// Get renders the visible sections of the configured page, or the default
// documents when the page has none.
func (s *Service) Get(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), listTimeout)
	defer cancel()

	secs, err := s.sections.List(ctx, section.Filter{PageKey: s.cfg.Site.PageKey, VisibleOnly: true})
	if err != nil {
		log.Error().Err(err).Msg("failed to load page content, rendering defaults")
	}

	dynamic := len(secs) > 0
	if !dynamic {
		secs = defaults.Sections()
	}

	blocks := make([]Block, 0, len(secs))

	for _, sec := range secs {
		// sections without a template are not rendered
		if !s.known[sec.SectionKey] {
			continue
		}

		blocks = append(blocks, Block{
			ID:         sec.ID,
			SectionKey: sec.SectionKey,
			Fields:     content.Parse(sec.Payload),
			Payload:    sec.Payload,
		})
	}

	data := fiber.Map{
		"Title":   s.cfg.Title,
		"Blocks":  blocks,
		"Dynamic": dynamic,
	}

	if id, ok := auth.IdentityFrom(c); ok {
		data["CurrentUser"] = id
	}

	return c.Render(TemplateName, data, handler.PublicLayout)
}
