// Package revocation tracks signed-out session tokens by their jti until
// natural expiry, so sign-out takes effect before the token would lapse.
package revocation

import (
	"context"
	"fmt"
	"time"

	"hrportal/pkg/platform/sentinel"
)

// Store is the revocation list consulted when decoding a session token.
type Store interface {
	// Revoke marks a token ID as revoked for the remaining token lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether the token ID is on the list. Expired entries
	// count as not revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
