package auth

import (
	"context"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/folio-cms/folio/internal/apperror"
)

// ValidateTOTP checks code against secret at t, allowing one step of clock skew.
func ValidateTOTP(secret, code string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t.UTC(), totp.ValidateOpts{
		Period:    30, //nolint:mnd
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})

	return err == nil && ok
}

// EnrollTOTP generates and stores a new TOTP secret for the account with email.
// The returned key carries the otpauth:// url for authenticator apps.
func (s *Service) EnrollTOTP(ctx context.Context, email string) (*otp.Key, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err //nolint:wrapcheck // already an apperror
	}

	issuer := s.cfg.SiteTitle
	if issuer == "" {
		issuer = "folio"
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: issuer, AccountName: user.Email})
	if err != nil {
		return nil, apperror.Upstream("Failed to generate TOTP secret", err)
	}

	if err = s.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err //nolint:wrapcheck // already an apperror
	}

	return key, nil
}

// DisableTOTP removes the second factor of the account with email.
func (s *Service) DisableTOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err //nolint:wrapcheck // already an apperror
	}

	return s.users.SetTOTPSecret(ctx, user.ID, "") //nolint:wrapcheck // already an apperror
}
