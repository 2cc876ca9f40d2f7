// Package section is the persistence gateway for page content sections.
package section

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/models"
)

const (
	whereID       = "id = ?"
	wherePageKey  = "page_key = ?"
	whereVisible  = "is_visible = ?"
	orderByIndex  = "order_index ASC"
	contentColumn = "content_json"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrSectionNotFound is returned when no section has the requested id.
	ErrSectionNotFound = apperror.NotFound("section not found")

	// ErrIDEmpty is returned when an update names no section.
	ErrIDEmpty = apperror.Validation("section id cannot be empty")
)

// Filter narrows List.
type Filter struct {
	// PageKey limits the result to one page when not empty.
	PageKey string
	// VisibleOnly drops hidden sections.
	VisibleOnly bool
}

// Gateway reads and writes content sections.
type Gateway struct {
	db *gorm.DB
}

// New returns a gateway using db.
func New(db *gorm.DB) (*Gateway, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Gateway{db: db}, nil
}

// List returns the sections matching f ordered by order index ascending.
// Payloads that are valid JSON but not objects are returned wrapped (see content.LoadDocument);
// rows holding invalid JSON are logged and skipped so one bad row cannot hide the page.
func (g *Gateway) List(ctx context.Context, f Filter) ([]content.Section, error) {
	var rows []models.ContentSection

	tx := g.db.WithContext(ctx).Model(&models.ContentSection{})
	if f.PageKey != "" {
		tx = tx.Where(wherePageKey, f.PageKey)
	}

	if f.VisibleOnly {
		tx = tx.Where(whereVisible, true)
	}

	if err := tx.Order(orderByIndex).Find(&rows).Error; err != nil {
		return nil, apperror.Upstream("failed to load sections", err)
	}

	out := make([]content.Section, 0, len(rows))

	for i := range rows {
		sec, err := toSection(&rows[i])
		if err != nil {
			log.Warn().Err(err).
				Str("section", rows[i].ID).
				Str("key", rows[i].SectionKey).
				Msg("skipping section with undecodable content")

			continue
		}

		out = append(out, sec)
	}

	return out, nil
}

// Get returns the section with the given id.
func (g *Gateway) Get(ctx context.Context, id string) (content.Section, error) {
	var row models.ContentSection

	err := g.db.WithContext(ctx).Where(whereID, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return content.Section{}, ErrSectionNotFound
	}

	if err != nil {
		return content.Section{}, apperror.Upstream("failed to load section", err)
	}

	sec, err := toSection(&row)
	if err != nil {
		return content.Section{}, apperror.Upstream("failed to decode section "+row.ID, err)
	}

	return sec, nil
}

// UpdatePayload replaces the whole payload of one section and returns the stored row.
// Concurrent writers are not coordinated: the last write wins.
func (g *Gateway) UpdatePayload(ctx context.Context, id string, payload content.Document) (content.Section, error) {
	if id == "" {
		return content.Section{}, ErrIDEmpty
	}

	raw, err := payload.Encode()
	if err != nil {
		return content.Section{}, apperror.Validation("payload is not valid JSON")
	}

	res := g.db.WithContext(ctx).
		Model(&models.ContentSection{}).
		Where(whereID, id).
		Update(contentColumn, datatypes.JSON(raw))
	if res.Error != nil {
		return content.Section{}, apperror.Upstream("failed to save section", res.Error)
	}

	if res.RowsAffected == 0 {
		return content.Section{}, ErrSectionNotFound
	}

	return g.Get(ctx, id)
}

// Insert stores a new section. It is used by seeding only; the editor never creates sections.
func (g *Gateway) Insert(ctx context.Context, sec content.Section) (content.Section, error) {
	raw, err := sec.Payload.Encode()
	if err != nil {
		return content.Section{}, apperror.Validation("payload is not valid JSON")
	}

	row := models.ContentSection{
		ID:          sec.ID,
		SectionKey:  sec.SectionKey,
		PageKey:     sec.PageKey,
		OrderIndex:  sec.OrderIndex,
		IsVisible:   sec.IsVisible,
		ContentJSON: datatypes.JSON(raw),
	}

	if err = g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return content.Section{}, apperror.Upstream("failed to create section", err)
	}

	sec.ID = row.ID

	return sec, nil
}

// Count returns the number of sections of a page, or of all pages when pageKey is empty.
func (g *Gateway) Count(ctx context.Context, pageKey string) (int64, error) {
	var n int64

	tx := g.db.WithContext(ctx).Model(&models.ContentSection{})
	if pageKey != "" {
		tx = tx.Where(wherePageKey, pageKey)
	}

	if err := tx.Count(&n).Error; err != nil {
		return 0, apperror.Upstream("failed to count sections", err)
	}

	return n, nil
}

func toSection(row *models.ContentSection) (content.Section, error) {
	doc, err := content.LoadDocument(row.ContentJSON)
	if err != nil {
		return content.Section{}, err
	}

	return content.Section{
		ID:         row.ID,
		SectionKey: row.SectionKey,
		PageKey:    row.PageKey,
		OrderIndex: row.OrderIndex,
		IsVisible:  row.IsVisible,
		Payload:    doc,
	}, nil
}
