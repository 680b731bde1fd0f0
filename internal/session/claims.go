// Package session models the signed claims snapshot carried by the portal's
// session token, its issuance and refresh, and the middleware that decodes it
// on every request. Claims are a cache of the user record: they go stale until
// explicitly refreshed after a state-changing action.
package session

import (
	"github.com/golang-jwt/jwt/v5"

	"hrportal/internal/gate"
	"hrportal/internal/identity/models"
)

// Claims is the point-in-time snapshot of a user embedded in the session
// token. Subject (in RegisteredClaims) holds the user ID.
type Claims struct {
	Role            models.Role   `json:"role"`
	Status          models.Status `json:"status"`
	ProfileComplete bool          `json:"profile_complete"`
	DisplayName     string        `json:"name"`
	Email           string        `json:"email"`
	EmployeeCode    string        `json:"employee_code,omitempty"`
	ManagerEmail    string        `json:"manager_email,omitempty"`
	jwt.RegisteredClaims
}

// Principal reduces the claims to the attributes the gate decides on.
func (c *Claims) Principal() *gate.Principal {
	if c == nil {
		return nil
	}
	return &gate.Principal{
		Subject:         c.Subject,
		Role:            c.Role,
		Status:          c.Status,
		ProfileComplete: c.ProfileComplete,
	}
}
