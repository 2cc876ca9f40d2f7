package auth

import (
	"errors"
	"strconv"

	"github.com/folio-cms/folio/internal/apperror"
)

// Messages returned to the login and reset pages.
const (
	// ForgotPasswordMessage is returned for every forgot password request with an email.
	ForgotPasswordMessage = "If an account with that email exists, a reset link has been sent."

	// PasswordUpdatedMessage is returned after a successful reset.
	PasswordUpdatedMessage = "Password updated successfully. You may now login."

	// AdminCreatedMessage is returned after an admin was registered.
	AdminCreatedMessage = "New administrator created successfully."
)

var (
	// ErrSecretTooShort is returned by NewService for signing keys below 32 bytes.
	ErrSecretTooShort = errors.New("token signing secret must have at least 32 bytes")

	// ErrNilDependency is returned by NewService when the user store or session storage is missing.
	ErrNilDependency = errors.New("auth service dependency is nil")

	// ErrCredentialsRequired is returned when email or password are missing.
	ErrCredentialsRequired = apperror.Validation("Email and password are required")

	// ErrEmailRequired is returned by ForgotPassword without an email.
	ErrEmailRequired = apperror.Validation("Email is required")

	// ErrResetFieldsRequired is returned by ResetPassword without token or password.
	ErrResetFieldsRequired = apperror.Validation("Token and new password are required")

	// ErrInvalidCredentials covers unknown accounts, wrong passwords and disabled accounts.
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")

	// ErrOTPRequired is returned when an account with TOTP logs in without a code.
	ErrOTPRequired = apperror.Unauthorized("Authentication code required")

	// ErrInvalidOTP is returned for a wrong or stale one-time code.
	ErrInvalidOTP = apperror.Unauthorized("Invalid authentication code")

	// ErrInvalidToken is returned for tampered, expired or foreign tokens.
	ErrInvalidToken = apperror.Unauthorized("Unauthorized Access Blocked")

	// ErrSessionEnded is returned for tokens whose session record is gone.
	ErrSessionEnded = apperror.Unauthorized("Session has ended")

	// ErrInvalidResetToken is returned for unusable reset tokens.
	ErrInvalidResetToken = apperror.Validation("Invalid or expired reset token")
)

// PasswordTooShort returns the validation error for passwords below min characters.
func PasswordTooShort(minLength int) error {
	return apperror.Validation("Password must be at least " + strconv.Itoa(minLength) + " characters long")
}
