package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PurposePasswordReset marks reset tokens.
const PurposePasswordReset = "password_reset"

// Claims of session and reset tokens. Session tokens carry no purpose.
type Claims struct {
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Token is a signed token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
	Identity  Identity
}

func (s *Service) sign(claims *Claims, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)

	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err //nolint:wrapcheck
	}

	return signed, exp, nil
}

// parse checks signature, algorithm and expiry.
func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}

// subjectID returns the numeric user id of a session token.
func subjectID(claims *Claims) (uint64, error) {
	return strconv.ParseUint(claims.Subject, 10, 64)
}
