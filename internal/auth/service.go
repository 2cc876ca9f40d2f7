package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/db/controller/adminuser"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/mail"
)

const (
	minSecretBytes = 32

	sessionKeyPrefix = "session:"
	resetKeyPrefix   = "reset-used:"

	// DefaultSessionTTL is the lifetime of session tokens.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultResetTTL is the lifetime of reset tokens.
	DefaultResetTTL = 15 * time.Minute
	// DefaultMinPasswordLength applies when Config.MinPasswordLength is zero.
	DefaultMinPasswordLength = 8
)

// Config of the auth service.
type Config struct {
	// Secret signs all tokens with HS256.
	Secret []byte
	// SessionTTL is the session token and record lifetime.
	SessionTTL time.Duration
	// ResetTTL is the reset token lifetime.
	ResetTTL time.Duration
	// MinPasswordLength applies to resets and new admins.
	MinPasswordLength int
	// SiteURL is used for reset links when the request has no origin.
	SiteURL string
	// SiteTitle is shown in mails and as TOTP issuer.
	SiteTitle string
}

// Identity is the signed in admin, stored as session record under the token jti.
type Identity struct {
	UserID    uint64    `json:"userID"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`

	// SessionID is the token jti. It is the key of the record, not part of it.
	SessionID string `json:"-"`
}

// String returns the email, used by the access log.
func (i Identity) String() string {
	return i.Email
}

// Service authenticates admins and manages their sessions.
type Service struct {
	users    *adminuser.Store
	storage  fiber.Storage
	notifier mail.Notifier
	cfg      Config
	now      func() time.Time
}

// NewService returns the auth service. notifier may be nil, reset mails are then logged.
func NewService(users *adminuser.Store, storage fiber.Storage, notifier mail.Notifier, cfg Config) (*Service, error) {
	if users == nil || storage == nil {
		return nil, ErrNilDependency
	}

	if len(cfg.Secret) < minSecretBytes {
		return nil, ErrSecretTooShort
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = DefaultResetTTL
	}

	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = DefaultMinPasswordLength
	}

	if notifier == nil {
		notifier = mail.Log{}
	}

	return &Service{users: users, storage: storage, notifier: notifier, cfg: cfg, now: time.Now}, nil
}

// SessionTTL returns the configured session lifetime, used for the cookie max age.
func (s *Service) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// Login checks the credentials and, when TOTP is enrolled, the one-time code.
func (s *Service) Login(ctx context.Context, email, password, otp string) (Token, error) {
	if email == "" || password == "" {
		return Token{}, ErrCredentialsRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, adminuser.ErrUserNotFound) {
			return Token{}, ErrInvalidCredentials
		}

		return Token{}, err //nolint:wrapcheck // already an apperror
	}

	if !user.Active || !user.VerifyPassword(password) {
		log.Info().Str("email", user.Email).Msg("login rejected")

		return Token{}, ErrInvalidCredentials
	}

	if user.HasTOTP() {
		if otp == "" {
			return Token{}, ErrOTPRequired
		}

		if !ValidateTOTP(user.TOTPSecret, otp, s.now()) {
			return Token{}, ErrInvalidOTP
		}
	}

	if models.IsLegacyHash(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}

	return s.Issue(ctx, Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
}

// upgradeHash replaces a bcrypt hash. Failures only cost another bcrypt check next time.
func (s *Service) upgradeHash(ctx context.Context, user *models.AdminUser, password string) {
	hash, err := models.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}

	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to upgrade legacy password hash")

		return
	}

	log.Info().Uint64("user_id", user.ID).Msg("legacy password hash upgraded to argon2id")
}

// Issue signs a session token for id and stores its session record.
func (s *Service) Issue(_ context.Context, id Identity) (Token, error) {
	claims := &Claims{Email: id.Email, Role: id.Role}
	claims.Subject = strconv.FormatUint(id.UserID, 10)

	signed, exp, err := s.sign(claims, s.cfg.SessionTTL)
	if err != nil {
		return Token{}, apperror.Upstream("Failed to sign session token", err)
	}

	id.CreatedAt = s.now().UTC()
	id.SessionID = claims.ID

	record, err := json.Marshal(id)
	if err != nil {
		return Token{}, apperror.Upstream("Failed to encode session", err)
	}

	if err = s.storage.Set(sessionKeyPrefix+claims.ID, record, s.cfg.SessionTTL); err != nil {
		return Token{}, apperror.Upstream("Failed to store session", err)
	}

	return Token{Value: signed, ExpiresAt: exp, Identity: id}, nil
}

// Verify returns the identity of a valid session token.
func (s *Service) Verify(_ context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims, err := s.parse(token)
	if err != nil || claims.Purpose != "" {
		return Identity{}, ErrInvalidToken
	}

	if _, err = subjectID(claims); err != nil {
		return Identity{}, ErrInvalidToken
	}

	raw, err := s.storage.Get(sessionKeyPrefix + claims.ID)
	if err != nil {
		return Identity{}, apperror.Upstream("Failed to read session", err)
	}

	if len(raw) == 0 {
		return Identity{}, ErrSessionEnded
	}

	var id Identity
	if err = json.Unmarshal(raw, &id); err != nil {
		return Identity{}, apperror.Upstream("Failed to decode session", err)
	}

	id.SessionID = claims.ID

	return id, nil
}

// Logout deletes the session record of token. Unknown or invalid tokens are ignored.
func (s *Service) Logout(_ context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", nil
	}

	if err = s.storage.Delete(sessionKeyPrefix + claims.ID); err != nil {
		return claims.ID, apperror.Upstream("Failed to delete session", err)
	}

	return claims.ID, nil
}

// hashForStore validates the password length and hashes it.
func (s *Service) hashForStore(password string) (string, error) {
	if len([]rune(password)) < s.cfg.MinPasswordLength {
		return "", PasswordTooShort(s.cfg.MinPasswordLength)
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return "", apperror.Upstream("Failed to hash password", fmt.Errorf("argon2id: %w", err))
	}

	return hash, nil
}
