package daemon

import (
	"context"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/content/defaults"
	"github.com/folio-cms/folio/internal/db/controller/section"
)

// Seed inserts the default sections into pageKey when it has none yet.
// It returns the number of inserted sections.
func Seed(ctx context.Context, db *gorm.DB, pageKey string) (int, error) {
	if pageKey == "" {
		pageKey = defaults.PageHome
	}

	sections, err := section.New(db)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	count, err := sections.Count(ctx, pageKey)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	if count > 0 {
		return 0, nil
	}

	inserted := 0

	for _, sec := range defaults.Sections() {
		sec.PageKey = pageKey

		if _, err = sections.Insert(ctx, sec); err != nil {
			return inserted, err //nolint:wrapcheck
		}

		inserted++
	}

	return inserted, nil
}
