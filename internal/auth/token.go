package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fjod/go_catalog/internal/domain"
)

var (
	ErrMissingToken = errors.New("no token provided")
	ErrInvalidToken = errors.New("token is not valid")
)

// Claims mirrors the payload issued by the auth server: the principal
// lives under the "user" claim next to the registered claims.
type Claims struct {
	User domain.Identity `json:"user"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the raw token from the x-auth-token header and returns
// the principal it carries. It has no side effects; expiry and
// signature failures both surface as ErrInvalidToken.
func (v *Verifier) Verify(raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Identity{}, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	if claims.User.UserID == "" {
		return domain.Identity{}, ErrInvalidToken
	}

	return claims.User, nil
}

// Sign mints a token for the given principal. The service only
// consumes tokens; this exists for tests and local tooling.
func (v *Verifier) Sign(identity domain.Identity, ttl time.Duration) (string, error) {
	claims := &Claims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
