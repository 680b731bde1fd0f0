package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	identitymodels "hrportal/internal/identity/models"
	identitystore "hrportal/internal/identity/store"
	leavemetrics "hrportal/internal/leave/metrics"
	"hrportal/internal/leave/models"
	"hrportal/internal/leave/store"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/sentinel"
)

// Service orchestrates the leave application lifecycle. Authorization here is
// defense in depth: the gate already keeps principals out of foreign areas,
// but every decision re-checks role and assignment server-side.
type Service struct {
	leaves  store.LeaveStore
	users   identitystore.UserStore
	metrics *leavemetrics.Metrics
	logger  *slog.Logger
}

func New(leaves store.LeaveStore, users identitystore.UserStore, metrics *leavemetrics.Metrics, logger *slog.Logger) *Service {
	return &Service{leaves: leaves, users: users, metrics: metrics, logger: logger}
}

// ApplyInput is the leave application form payload.
type ApplyInput struct {
	Type      models.Type
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Apply files a leave application for the given user. The applicant must have
// an assigned manager, and that manager's account must exist and actually
// hold the manager (or admin) role.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, in ApplyInput) (*models.Leave, error) {
	applicant, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}

	if applicant.ManagerEmail == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no manager is assigned to you; contact an admin")
	}

	manager, err := s.users.FindByEmail(ctx, applicant.ManagerEmail)
	if err != nil || manager.Role.Level() < identitymodels.RoleManager.Level() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "your assigned manager's account is not active; contact an admin")
	}

	leave, err := models.NewLeave(
		uuid.New(), applicant.ID,
		applicant.Name, applicant.EmployeeCode, applicant.ManagerEmail,
		in.Type, in.StartDate, in.EndDate, in.Reason, time.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save leave application")
	}

	s.metrics.IncrementSubmitted()
	s.logger.InfoContext(ctx, "leave application submitted",
		"leave_id", leave.ID,
		"user_id", applicant.ID,
		"manager", leave.ManagerEmail,
	)
	return leave, nil
}

// MyLeaves lists the caller's own applications, newest first.
func (s *Service) MyLeaves(ctx context.Context, userID uuid.UUID) ([]*models.Leave, error) {
	leaves, err := s.leaves.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leaves")
	}
	return leaves, nil
}

// ManagerQueue lists the applications assigned to the given manager.
func (s *Service) ManagerQueue(ctx context.Context, managerEmail string) ([]*models.Leave, error) {
	leaves, err := s.leaves.ListByManager(ctx, managerEmail)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leave queue")
	}
	return leaves, nil
}

// AllLeaves lists every application; admin-only at the handler.
func (s *Service) AllLeaves(ctx context.Context) ([]*models.Leave, error) {
	leaves, err := s.leaves.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leaves")
	}
	return leaves, nil
}

// Decide resolves a pending application. Only the assigned manager or an
// admin may decide it; anyone else gets forbidden regardless of how they
// reached the endpoint.
func (s *Service) Decide(ctx context.Context, leaveID uuid.UUID, decision models.Status, actorEmail string, actorRole identitymodels.Role) (*models.Leave, error) {
	leave, err := s.leaves.Execute(ctx, leaveID,
		func(l *models.Leave) error {
			if actorRole != identitymodels.RoleAdmin && !strings.EqualFold(l.ManagerEmail, actorEmail) {
				return dErrors.New(dErrors.CodeForbidden, "you are not assigned to this leave application")
			}
			return l.CanDecide()
		},
		func(l *models.Leave) { l.ApplyDecision(decision, time.Now()) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "leave application not found")
		}
		if dErrors.HasCode(err, dErrors.CodeForbidden) || dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decide leave application")
	}

	s.metrics.ObserveDecision(string(decision))
	s.logger.InfoContext(ctx, "leave application decided",
		"leave_id", leave.ID,
		"decision", decision,
		"actor", actorEmail,
	)
	return leave, nil
}
