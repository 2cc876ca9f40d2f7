// Package dashboard provides the content editor of the admin area.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/editor"
	"github.com/folio-cms/folio/internal/upload"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/handler/api/uploadapi"
	"github.com/folio-cms/folio/internal/web/navigation"
	"github.com/folio-cms/folio/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.AdminPath + "/dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// RecentMediaLimit is the number of media library entries shown.
	RecentMediaLimit = 12

	defaultTimeout = 30 * time.Second
	uploadTimeout  = 60 * time.Second
)

// Editors hands out the working copy of an admin session.
type Editors interface {
	Get(sessionID string) *editor.Store
}

// Uploader stores images.
type Uploader interface {
	Upload(ctx context.Context, f upload.File) (upload.Result, error)
}

// MediaLister lists recent uploads.
type MediaLister interface {
	Recent(ctx context.Context, limit int) ([]models.MediaAsset, error)
}

// SectionView is one section as rendered by the editor.
type SectionView struct {
	ID          string
	SectionKey  string
	PageKey     string
	OrderIndex  int
	IsVisible   bool
	Fields      []content.Field
	Unsupported int
	Saving      bool
	Dirty       bool
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	editors  Editors
	uploader Uploader
	media    MediaLister
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, editors Editors, uploader Uploader, media MediaLister) {
	if app == nil || cfg == nil || editors == nil || uploader == nil || media == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.editors = editors
	s.uploader = uploader
	s.media = media

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post("/reload", s.Reload)
		router.Post("/sections/:id/ops", s.Ops)
		router.Post("/sections/:id/save", s.Save)
		router.Post("/sections/:id/upload", s.Upload)
	})
}

// store returns the working copy of the signed in session, loading it on first use.
func (s *Service) store(c *fiber.Ctx) (*editor.Store, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return nil, auth.ErrInvalidToken
	}

	st := s.editors.Get(id.SessionID)
	if st.Loaded() {
		return st, nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	if err := st.Load(ctx, ""); err != nil {
		return nil, apperror.Upstream("Failed to load sections", err)
	}

	return st, nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Content", "content", "dashboard").
		AddBreadcrumb("Dashboard", Path, true)

	data := fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"Flash":      session.PopFlash(c),
		"Kinds":      newFieldKinds(),
	}

	if id, ok := auth.IdentityFrom(c); ok {
		data["CurrentUser"] = id
	}

	st, err := s.store(c)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return c.Redirect(handler.AdminPath + "/login")
		}

		log.Error().Err(err).Msg("failed to open editor")
		data["error"] = apperror.Message(err)

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, data, handler.BaseLayout)
	}

	views := make([]SectionView, 0)

	for _, sec := range st.Sections() {
		fields := content.Parse(sec.Payload)
		editable := content.EditableFields(fields)

		views = append(views, SectionView{
			ID:          sec.ID,
			SectionKey:  sec.SectionKey,
			PageKey:     sec.PageKey,
			OrderIndex:  sec.OrderIndex,
			IsVisible:   sec.IsVisible,
			Fields:      editable,
			Unsupported: len(fields) - len(editable),
			Saving:      st.Saving(sec.ID),
			Dirty:       st.Dirty(sec.ID),
		})
	}

	data["Sections"] = views

	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	media, err := s.media.Recent(ctx, RecentMediaLimit)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list media library")
	}

	data["Media"] = media

	log.Debug().Int("sections", len(views)).Msg("editor rendered")

	return c.Render(TemplateName, data, handler.BaseLayout)
}

// Reload drops the working copy; the next page view reads the database again.
func (s *Service) Reload(c *fiber.Ctx) error {
	id, ok := auth.IdentityFrom(c)
	if ok {
		s.editors.Get(id.SessionID).Discard()
	}

	session.SetFlash(c, session.FlashSuccess, "Reloaded content from the database. Unsaved edits were discarded.")

	return c.Redirect(Path, fiber.StatusSeeOther)
}

// Ops applies the posted field values and then the structural operation of the pressed button.
func (s *Service) Ops(c *fiber.Ctx) error {
	sectionID := c.Params("id")

	st, form, err := s.prepare(c, sectionID)
	if err != nil {
		return s.fail(c, sectionID, err)
	}

	op, ok, err := structuralOp(form)
	if err != nil {
		return s.fail(c, sectionID, err)
	}

	if ok {
		if _, err = st.Apply(sectionID, op); err != nil {
			return s.fail(c, sectionID, err)
		}
	}

	if handler.WantsJSON(c) {
		sec, _ := st.Section(sectionID)

		return c.JSON(fiber.Map{"success": true, "dirty": st.Dirty(sectionID), "content_json": sec.Payload})
	}

	return s.back(c, sectionID)
}

// Save applies the posted field values and persists the section.
func (s *Service) Save(c *fiber.Ctx) error {
	sectionID := c.Params("id")

	st, _, err := s.prepare(c, sectionID)
	if err != nil {
		return s.fail(c, sectionID, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	saved, err := st.Save(ctx, sectionID)
	if err != nil {
		return s.fail(c, sectionID, err)
	}

	log.Info().Str("section_id", saved.ID).Str("section_key", saved.SectionKey).Msg("section saved")

	if handler.WantsJSON(c) {
		return c.JSON(fiber.Map{"success": true, "dirty": st.Dirty(sectionID)})
	}

	session.SetFlash(c, session.FlashSuccess, "Saved "+saved.SectionKey+".")

	return s.back(c, sectionID)
}

// Upload stores the file of the pressed image widget and sets its url on the field.
func (s *Service) Upload(c *fiber.Ctx) error {
	sectionID := c.Params("id")

	st, form, err := s.prepare(c, sectionID)
	if err != nil {
		return s.fail(c, sectionID, err)
	}

	name := first(form[formUpload])

	t, err := parseTarget(name)
	if err != nil {
		return s.fail(c, sectionID, err)
	}

	f, closeFn, err := uploadapi.FormFile(c, FileFieldName(name))
	if err != nil {
		return s.fail(c, sectionID, err)
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	res, err := s.uploader.Upload(ctx, f)
	if !upload.IsStored(err) {
		return s.fail(c, sectionID, err)
	}

	op, opErr := t.setOp(res.URL)
	if opErr == nil {
		_, opErr = st.Apply(sectionID, op)
	}

	if opErr != nil {
		return s.fail(c, sectionID, opErr)
	}

	if err != nil {
		// the file is live, only the media library entry is missing
		return s.fail(c, sectionID, err)
	}

	if handler.WantsJSON(c) {
		return c.JSON(res)
	}

	session.SetFlash(c, session.FlashSuccess, "Image uploaded. Save the section to publish it.")

	return s.back(c, sectionID)
}

// prepare opens the store and applies the text inputs posted with the section form.
func (s *Service) prepare(c *fiber.Ctx, sectionID string) (*editor.Store, map[string][]string, error) {
	st, err := s.store(c)
	if err != nil {
		return nil, nil, err
	}

	form := formValues(c)

	sec, err := st.Section(sectionID)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // apperror
	}

	ops, err := valueOps(sec, form)
	if err != nil {
		return nil, nil, err
	}

	for _, op := range ops {
		if _, err = st.Apply(sectionID, op); err != nil {
			return nil, nil, err //nolint:wrapcheck // apperror
		}
	}

	return st, form, nil
}

// formValues returns the url encoded or multipart form fields.
func formValues(c *fiber.Ctx) map[string][]string {
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		return mf.Value
	}

	out := map[string][]string{}

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = append(out[string(k)], string(v))
	})

	return out
}

// fail reports err as JSON or as flash message on the editor.
func (s *Service) fail(c *fiber.Ctx, sectionID string, err error) error {
	if errors.Is(err, auth.ErrInvalidToken) {
		return c.Redirect(handler.AdminPath + "/login")
	}

	if handler.WantsJSON(c) {
		return handler.JSONError(c, err)
	}

	if apperror.HTTPStatus(err) >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("section_id", sectionID).Msg("editor request failed")
	}

	session.SetFlash(c, session.FlashError, apperror.Message(err))

	return s.back(c, sectionID)
}

func (s *Service) back(c *fiber.Ctx, sectionID string) error {
	return c.Redirect(Path+"#section-"+sectionID, fiber.StatusSeeOther)
}

// newFieldKinds are the kinds offered when adding a field.
func newFieldKinds() []string {
	kinds := []content.Kind{
		content.KindShortText,
		content.KindLongText,
		content.KindImage,
		content.KindScalarList,
		content.KindObjectList,
		content.KindNested,
	}

	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.String())
	}

	return out
}
