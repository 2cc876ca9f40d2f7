// Package contentapi is the JSON endpoint replacing a section payload.
package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path is the content endpoint.
	Path = handler.APIAdminPath + "/content"

	// MissingPayloadMessage is returned without id or content_json.
	MissingPayloadMessage = "Missing Required Payload"

	updateTimeout = 15 * time.Second
)

// Updater replaces section payloads.
type Updater interface {
	UpdatePayload(ctx context.Context, id string, payload content.Document) (content.Section, error)
}

// Request is the PUT body.
type Request struct {
	ID          string          `json:"id" validate:"required"`
	ContentJSON json.RawMessage `json:"content_json" validate:"required"`
}

// Row is a section as returned to the client.
type Row struct {
	ID          string           `json:"id"`
	SectionKey  string           `json:"section_key"`
	PageKey     string           `json:"page_key"`
	OrderIndex  int              `json:"order_index"`
	IsVisible   bool             `json:"is_visible"`
	ContentJSON content.Document `json:"content_json"`
}

// Service is the content API handler.
type Service struct {
	handler.Service
	cfg      *config.Config
	sections Updater
}

// Handler is the content API handler.
var Handler = Service{}

// Init registers the endpoint. The access gate answers anonymous requests with 401.
func (s *Service) Init(app *fiber.App, cfg *config.Config, sections Updater) {
	if app == nil || cfg == nil || sections == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.sections = sections

	app.Put(Path, s.Put)
}

// Put replaces the payload of one section.
func (s *Service) Put(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Parse(c, req, MissingPayloadMessage); err != nil {
		return handler.JSONError(c, err)
	}

	if bytes.Equal(bytes.TrimSpace(req.ContentJSON), []byte("null")) {
		return handler.JSONError(c, apperror.Validation(MissingPayloadMessage))
	}

	doc, err := content.DecodeDocument(req.ContentJSON)
	if err != nil {
		return handler.JSONError(c, apperror.Validation("content_json must be a JSON object"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), updateTimeout)
	defer cancel()

	sec, err := s.sections.UpdatePayload(ctx, req.ID, doc)
	if err != nil {
		return handler.JSONError(c, err)
	}

	ev := log.Info().Str("section_id", sec.ID).Str("section_key", sec.SectionKey)
	if id, ok := auth.IdentityFrom(c); ok {
		ev = ev.Uint64("user_id", id.UserID)
	}

	ev.Msg("section content replaced")

	return c.JSON(fiber.Map{"success": true, "data": []Row{toRow(sec)}})
}

func toRow(sec content.Section) Row {
	return Row{
		ID:          sec.ID,
		SectionKey:  sec.SectionKey,
		PageKey:     sec.PageKey,
		OrderIndex:  sec.OrderIndex,
		IsVisible:   sec.IsVisible,
		ContentJSON: sec.Payload,
	}
}
