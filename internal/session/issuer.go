package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hrportal/internal/identity/models"
	dErrors "hrportal/pkg/domain-errors"
)

// Issuer signs and validates session tokens.
type Issuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewIssuer(signingKey, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// TTL returns the configured session lifetime.
func (s *Issuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a fresh token snapshotting the user's current state.
func (s *Issuer) Issue(u *models.User) (string, error) {
	return s.sign(&Claims{
		Role:            u.Role,
		Status:          u.Status,
		ProfileComplete: u.ProfileComplete,
		DisplayName:     u.Name,
		Email:           u.Email,
		EmployeeCode:    u.EmployeeCode,
		ManagerEmail:    u.ManagerEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: u.ID.String(),
		},
	})
}

// Reissue signs the given claims as a new token with a fresh ID and lifetime.
// The caller is responsible for the payload being up to date.
func (s *Issuer) Reissue(c *Claims) (string, error) {
	copied := *c
	return s.sign(&copied)
}

func (s *Issuer) sign(c *Claims) (string, error) {
	now := time.Now()
	c.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	c.IssuedAt = jwt.NewNumericDate(now)
	c.Issuer = s.issuer
	c.ID = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode validates a token and returns its claims. All failures map to
// unauthorized; the session middleware treats them as an absent session.
func (s *Issuer) Decode(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
