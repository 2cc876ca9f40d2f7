// Package uploadapi is the JSON endpoint for image uploads.
package uploadapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/upload"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path is the upload endpoint.
	Path = handler.APIAdminPath + "/upload"

	// FormField is the multipart field carrying the file.
	FormField = "file"

	uploadTimeout = 60 * time.Second
)

// Uploader stores images.
type Uploader interface {
	Upload(ctx context.Context, f upload.File) (upload.Result, error)
}

// Service is the upload API handler.
type Service struct {
	handler.Service
	cfg      *config.Config
	uploader Uploader
}

// Handler is the upload API handler.
var Handler = Service{}

// Init registers the endpoint.
func (s *Service) Init(app *fiber.App, cfg *config.Config, uploader Uploader) {
	if app == nil || cfg == nil || uploader == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.uploader = uploader

	app.Post(Path, s.Post)
}

// Post stores the file of the multipart field "file" and returns its public url.
func (s *Service) Post(c *fiber.Ctx) error {
	f, closeFn, err := FormFile(c, FormField)
	if err != nil {
		return handler.JSONError(c, err)
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	res, err := s.uploader.Upload(ctx, f)
	if err != nil {
		return handler.JSONError(c, err)
	}

	return c.JSON(res)
}

// FormFile opens the multipart file field as an upload.File. A missing field is upload.ErrNoFile.
func FormFile(c *fiber.Ctx, field string) (upload.File, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return upload.File{}, func() {}, upload.ErrNoFile
	}

	body, err := fh.Open()
	if err != nil {
		return upload.File{}, func() {}, errors.Join(upload.ErrNoFile, err)
	}

	closeFn := func() {
		if cerr := body.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close upload")
		}
	}

	return upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        body,
	}, closeFn, nil
}
