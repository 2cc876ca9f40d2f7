// Package media records uploaded files in the media library table.
package media

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Library writes MediaAsset rows.
type Library struct {
	db *gorm.DB
}

// New returns a library using db.
func New(db *gorm.DB) (*Library, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Library{db: db}, nil
}

// Record stores one uploaded file. Dimensions are not computed and stay zero.
func (l *Library) Record(ctx context.Context, fileURL, altText string, size int64) (*models.MediaAsset, error) {
	asset := &models.MediaAsset{
		FileURL:  fileURL,
		AltText:  altText,
		FileSize: size,
	}

	if err := l.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, apperror.Upstream("failed to record media asset", err)
	}

	return asset, nil
}

// Recent returns the newest assets first.
func (l *Library) Recent(ctx context.Context, limit int) ([]models.MediaAsset, error) {
	var assets []models.MediaAsset

	if err := l.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&assets).Error; err != nil {
		return nil, apperror.Upstream("failed to load media library", err)
	}

	return assets, nil
}
