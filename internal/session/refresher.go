package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"hrportal/internal/identity/models"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/sentinel"
)

// UserStore is the read surface the refresher needs from the credential store.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Overrides lets a caller replace presentational claim fields during refresh.
// Gating fields (role, status, profile completeness) always come from the
// store and cannot be overridden.
type Overrides struct {
	DisplayName *string
	Email       *string
}

// Refresher re-issues session tokens from the current user record. It is the
// only suspension point of the session core: the gate itself never touches
// the store. Refresh is idempotent and writes nothing, so a client may
// abandon or repeat it freely; concurrent refreshes are last-write-wins on
// the client's cached token.
type Refresher struct {
	users  UserStore
	issuer *Issuer
	logger *slog.Logger
}

func NewRefresher(users UserStore, issuer *Issuer, logger *slog.Logger) *Refresher {
	return &Refresher{users: users, issuer: issuer, logger: logger}
}

// Refresh re-reads the gating fields for the subject of the given claims and
// returns a newly signed token plus the refreshed claims. Subject, email and
// display name are preserved unless explicitly overridden.
func (r *Refresher) Refresh(ctx context.Context, current *Claims, ov Overrides) (string, *Claims, error) {
	userID, err := uuid.Parse(current.Subject)
	if err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid subject")
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	refreshed := *current
	refreshed.Role = user.Role
	refreshed.Status = user.Status
	refreshed.ProfileComplete = user.ProfileComplete
	refreshed.EmployeeCode = user.EmployeeCode
	refreshed.ManagerEmail = user.ManagerEmail
	refreshed.DisplayName = user.Name
	refreshed.Email = user.Email
	if ov.DisplayName != nil {
		refreshed.DisplayName = *ov.DisplayName
	}
	if ov.Email != nil {
		refreshed.Email = *ov.Email
	}

	token, err := r.issuer.Reissue(&refreshed)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign refreshed token")
	}

	r.logger.DebugContext(ctx, "claims refreshed",
		"subject", refreshed.Subject,
		"status", refreshed.Status,
		"profile_complete", refreshed.ProfileComplete,
	)
	return token, &refreshed, nil
}
