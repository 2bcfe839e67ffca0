package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens are bearer capabilities for an email identity, valid for one
// hour. There is no refresh or revocation.
const tokenTTL = time.Hour

// ErrInvalidToken covers malformed, mis-signed and expired tokens
// alike; callers get no further detail.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what a verified token asserts. Role is advisory only:
// privileged decisions re-derive the role from the users collection by
// the verified email, never from the claim.
type Identity struct {
	Email string
	Role  string
}

// TokenService issues and verifies HS256-signed bearer tokens.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token asserting email (and optionally role) for one
// hour.
func (s *TokenService) Issue(email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the asserted
// identity. It is a pure check with no side effects.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return Identity{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return Identity{Email: email, Role: role}, nil
}
