package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role known to the admin area.
const RoleAdmin = "admin"

// AdminUser is an account allowed into the admin area.
type AdminUser struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is the login name, stored lower-cased.
	Email string `gorm:"uniqueIndex;size:191;not null"`
	// PasswordHash is an Argon2id hash, or a bcrypt hash for accounts
	// imported from an older installation.
	PasswordHash string `gorm:"size:255;not null"`
	// Role is always RoleAdmin for now.
	Role string `gorm:"size:50;not null;default:'admin'"`
	// Active accounts can log in.
	Active bool `gorm:"not null"`
	// TOTPSecret enables the second factor when not empty.
	TOTPSecret string `gorm:"column:totp_secret;size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName keeps the table name of the existing installations.
func (AdminUser) TableName() string {
	return "admin_users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// IsLegacyHash reports whether hash was produced by bcrypt.
func IsLegacyHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

// VerifyPassword verifies a plaintext password against the stored hash.
// Both Argon2id and legacy bcrypt hashes are accepted.
func (u *AdminUser) VerifyPassword(password string) bool {
	if IsLegacyHash(u.PasswordHash) {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}

// HasTOTP reports whether the second factor is enrolled.
func (u *AdminUser) HasTOTP() bool {
	return u.TOTPSecret != ""
}
