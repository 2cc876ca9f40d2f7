// Package setting stores named runtime values in the settings table.
package setting

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting

	result := db.WithContext(ctx).Where(nameQueryPattern, name).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &s, nil
}

// Create stores a new setting and fails when the name is taken.
func Create(ctx context.Context, db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	_, err := Get(ctx, db, name)
	if err == nil {
		return nil, ErrSettingAlreadyExists
	}

	if !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}

	s := &models.Setting{
		Name:  name,
		Value: value,
	}

	if result := db.WithContext(ctx).Create(s); result.Error != nil {
		return nil, result.Error
	}

	return s, nil
}

// Set creates or updates a setting by name (upsert operation).
func Set(ctx context.Context, db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	s, err := Get(ctx, db, name)
	if errors.Is(err, ErrSettingNotFound) {
		return Create(ctx, db, name, value)
	}

	if err != nil {
		return nil, err
	}

	s.Value = value
	if result := db.WithContext(ctx).Save(s); result.Error != nil {
		return nil, result.Error
	}

	return s, nil
}

// Delete deletes a setting by name.
func Delete(ctx context.Context, db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.WithContext(ctx).Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
