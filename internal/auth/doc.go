// Package auth implements the local admin login.
//
// Accounts live in the admin_users table and are checked with Argon2id;
// bcrypt hashes from older installations are accepted once and replaced by
// an Argon2id hash on the next successful login. Accounts with an enrolled
// TOTP secret must also send a valid one-time code.
//
// A successful login issues an HS256 JWT carrying sub, email, role, jti, iat
// and exp. The token alone is not enough: Verify also requires the session
// record stored under the jti, so Logout invalidates a token before it expires.
//
// Password reset tokens are JWTs with purpose "password_reset" and a short
// lifetime. They are never accepted as session tokens and can be used once.
//
// Example usage:
//
//	svc, err := auth.NewService(users, storage, notifier, auth.Config{Secret: key})
//	tok, err := svc.Login(ctx, email, password, otp)
//	id, err := svc.Verify(ctx, tok.Value)
package auth
