// Package auth implements registration, login and bearer-token verification.
package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned for unknown emails or wrong
	// passwords. Deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrBadToken is returned for missing, malformed or expired tokens.
	ErrBadToken = errors.New("invalid or expired token")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// Claims is the JWT payload issued at login.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// Session is the result of a successful register or login.
type Session struct {
	Token            string
	UserID           int64
	FullName         string
	Email            string
	Role             string
	DiscountTier     int
	DiscountTierName string
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID int64
	Role   string
}

// signToken issues an HS256 token for the given user.
func signToken(secret []byte, userID int64, role string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token, returning the caller's
// identity.
func VerifyToken(secret []byte, token string) (*Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrBadToken
	}
	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
