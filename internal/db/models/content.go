package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentSection is one editable block of a page.
type ContentSection struct {
	// ID is a uuid assigned on insert and never changed.
	ID string `gorm:"primaryKey;size:36"`
	// SectionKey selects the template that renders the section.
	SectionKey string `gorm:"size:100;not null;index:idx_site_content_page,priority:2"`
	// PageKey is the page the section belongs to.
	PageKey string `gorm:"size:100;not null;index:idx_site_content_page,priority:1"`
	// OrderIndex sorts sections ascending.
	OrderIndex int `gorm:"not null;default:0"`
	// IsVisible hides the section from the public page when false.
	IsVisible bool `gorm:"not null"`
	// ContentJSON is the schema-less payload.
	ContentJSON datatypes.JSON `gorm:"column:content_json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName keeps the table name of the existing installations.
func (ContentSection) TableName() string {
	return "site_content"
}

// BeforeCreate assigns the uuid.
func (c *ContentSection) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}

// MediaAsset records an uploaded file.
type MediaAsset struct {
	ID        string `gorm:"primaryKey;size:36"`
	FileURL   string `gorm:"column:file_url;size:1024;not null"`
	AltText   string `gorm:"size:512"`
	FileSize  int64
	Width     int
	Height    int
	CreatedAt time.Time
}

// TableName keeps the table name of the existing installations.
func (MediaAsset) TableName() string {
	return "media_library"
}

// BeforeCreate assigns the uuid.
func (m *MediaAsset) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	return nil
}

// All returns every model handled by AutoMigrate.
func All() []any {
	return []any{
		&AdminUser{},
		&ContentSection{},
		&MediaAsset{},
		&Setting{},
	}
}
