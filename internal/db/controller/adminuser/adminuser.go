// Package adminuser provides storage operations for admin accounts.
package adminuser

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/db/models"
)

const (
	whereEmail = "email = ?"
	whereID    = "id = ?"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = apperror.NotFound("admin not found")

	// ErrUserExists is returned when creating an account whose email is taken.
	ErrUserExists = apperror.Validation("An admin with this email already exists")
)

// Store reads and writes admin accounts.
type Store struct {
	db *gorm.DB
}

// New returns a store using db.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns the account registered under email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser

	err := s.db.WithContext(ctx).Where(whereEmail, NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperror.Upstream("failed to query admin", err)
	}

	return &user, nil
}

// FindByID returns the account with id.
func (s *Store) FindByID(ctx context.Context, id uint64) (*models.AdminUser, error) {
	var user models.AdminUser

	err := s.db.WithContext(ctx).Where(whereID, id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperror.Upstream("failed to query admin", err)
	}

	return &user, nil
}

// Create inserts an active admin with an already hashed password.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (*models.AdminUser, error) {
	email = NormalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).Where(whereEmail, email).Count(&count).Error; err != nil {
		return nil, apperror.Upstream("failed to check existing admin", err)
	}

	if count > 0 {
		return nil, ErrUserExists
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		Active:       true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperror.Upstream("failed to create admin", err)
	}

	return user, nil
}

// UpdatePasswordHash replaces the stored hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	return s.update(ctx, id, "password_hash", hash)
}

// SetTOTPSecret enrolls or, with an empty secret, removes the second factor.
func (s *Store) SetTOTPSecret(ctx context.Context, id uint64, secret string) error {
	return s.update(ctx, id, "totp_secret", secret)
}

// SetActive enables or disables an account.
func (s *Store) SetActive(ctx context.Context, id uint64, active bool) error {
	return s.update(ctx, id, "active", active)
}

// List returns all accounts ordered by email.
func (s *Store) List(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser

	if err := s.db.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, apperror.Upstream("failed to load admins", err)
	}

	return users, nil
}

// Count returns the number of accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64

	if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&n).Error; err != nil {
		return 0, apperror.Upstream("failed to count admins", err)
	}

	return n, nil
}

func (s *Store) update(ctx context.Context, id uint64, column string, value any) error {
	res := s.db.WithContext(ctx).Model(&models.AdminUser{}).Where(whereID, id).Update(column, value)
	if res.Error != nil {
		return apperror.Upstream("failed to update admin", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
