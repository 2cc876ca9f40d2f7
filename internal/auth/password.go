package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/db/controller/adminuser"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/mail"
)

// ResetPath is the page reset links point to.
const ResetPath = "/admin/reset-password"

// ForgotPassword mails a reset link when an account exists for email.
// The answer is the same for known and unknown addresses.
func (s *Service) ForgotPassword(ctx context.Context, email, origin string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", ErrEmailRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, adminuser.ErrUserNotFound) {
			log.Error().Err(err).Msg("forgot password lookup failed")
		}

		return ForgotPasswordMessage, nil
	}

	claims := &Claims{Email: user.Email, Purpose: PurposePasswordReset}

	token, _, err := s.sign(claims, s.cfg.ResetTTL)
	if err != nil {
		return "", apperror.Upstream("Failed to sign reset token", err)
	}

	if origin == "" {
		origin = s.cfg.SiteURL
	}

	link := strings.TrimRight(origin, "/") + ResetPath + "?token=" + url.QueryEscape(token)

	body, err := mail.RenderReset(mail.ResetData{SiteTitle: s.cfg.SiteTitle, ResetURL: link, ExpiresIn: s.cfg.ResetTTL})
	if err != nil {
		return "", apperror.Upstream("Failed to render reset mail", err)
	}

	if err = s.notifier.Send(ctx, user.Email, mail.ResetSubject, body); err != nil {
		// the caller must not learn whether the account exists
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to send password reset mail")
	}

	return ForgotPasswordMessage, nil
}

// ResetPassword sets a new password using a reset token. Each token works once.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrResetFieldsRequired
	}

	claims, err := s.parse(token)
	if err != nil || claims.Purpose != PurposePasswordReset || claims.Email == "" {
		return ErrInvalidResetToken
	}

	used, err := s.storage.Get(resetKeyPrefix + claims.ID)
	if err != nil {
		return apperror.Upstream("Failed to update password", err)
	}

	if len(used) > 0 {
		return ErrInvalidResetToken
	}

	hash, err := s.hashForStore(newPassword)
	if err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, adminuser.ErrUserNotFound) {
			return ErrInvalidResetToken
		}

		return apperror.Upstream("Failed to update password", err)
	}

	if err = s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return apperror.Upstream("Failed to update password", err)
	}

	if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
		if err = s.storage.Set(resetKeyPrefix+claims.ID, []byte("1"), remaining); err != nil {
			log.Error().Err(err).Msg("failed to mark reset token as used")
		}
	}

	log.Info().Uint64("user_id", user.ID).Msg("password reset")

	return nil
}

// CreateAdmin registers an active admin account.
func (s *Service) CreateAdmin(ctx context.Context, email, password string) (*models.AdminUser, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	hash, err := s.hashForStore(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if apperror.IsKind(err, apperror.KindUpstream) {
			return nil, apperror.Upstream("Failed to create new admin user", err)
		}

		return nil, err //nolint:wrapcheck // validation errors are shown as is
	}

	log.Info().Uint64("user_id", user.ID).Str("email", user.Email).Msg("admin created")

	return user, nil
}
