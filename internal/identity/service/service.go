package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	identitymetrics "hrportal/internal/identity/metrics"
	"hrportal/internal/identity/models"
	"hrportal/internal/identity/store"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/sentinel"
)

// Approval queue actions an admin may take on a pending account.
const (
	ActionApproveAsUser    = "approveAsUser"
	ActionApproveAsManager = "approveAsManager"
	ActionReject           = "reject"
)

// Service orchestrates account lifecycle: registration, credential checks,
// the admin approval queue, onboarding, and user administration.
type Service struct {
	users   store.UserStore
	metrics *identitymetrics.Metrics
	logger  *slog.Logger
}

func New(users store.UserStore, metrics *identitymetrics.Metrics, logger *slog.Logger) *Service {
	return &Service{users: users, metrics: metrics, logger: logger}
}

// RegisterInput is the sign-up form payload.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a pending account. The account cannot pass the gate beyond
// the pending-approval page until an admin approves it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name and email are required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := models.NewUser(uuid.New(), in.Name, in.Email, in.Phone, string(hash), time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	s.metrics.IncrementUsersRegistered()
	s.logger.InfoContext(ctx, "account registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate verifies credentials. Missing accounts and wrong passwords
// produce the same error so the response never reveals which one it was.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.ObserveLogin("failure")
			return nil, invalid
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.metrics.ObserveLogin("failure")
		return nil, invalid
	}

	s.metrics.ObserveLogin("success")
	return user, nil
}

// HandleApproval executes one admin action from the pending queue.
// approveAsUser and approveAsManager both approve the account and fix its
// role; reject is always permitted, including on an approved account.
func (s *Service) HandleApproval(ctx context.Context, userID uuid.UUID, action string) (*models.User, error) {
	var (
		validate func(*models.User) error
		apply    func(*models.User)
		now      = time.Now()
	)

	switch action {
	case ActionApproveAsUser:
		validate = (*models.User).CanApprove
		apply = func(u *models.User) { u.ApplyApproval(models.RoleUser, now) }
	case ActionApproveAsManager:
		validate = (*models.User).CanApprove
		apply = func(u *models.User) { u.ApplyApproval(models.RoleManager, now) }
	case ActionReject:
		validate = func(*models.User) error { return nil }
		apply = func(u *models.User) { u.ApplyRejection(now) }
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid action")
	}

	user, err := s.users.Execute(ctx, userID, validate, apply)
	if err != nil {
		return nil, wrapUserErr(err)
	}

	s.metrics.ObserveApproval(action)
	s.logger.InfoContext(ctx, "approval action applied",
		"user_id", userID,
		"action", action,
		"status", user.Status,
		"role", user.Role,
	)
	return user, nil
}

// CompleteProfileInput is the onboarding form payload.
type CompleteProfileInput struct {
	Profile      models.Profile
	ManagerEmail string
}

// CompleteProfile records the onboarding form for the subject and assigns the
// next sequential employee code on first completion. Only approved accounts
// may complete onboarding; handlers enforce that the caller is the subject.
func (s *Service) CompleteProfile(ctx context.Context, userID uuid.UUID, in CompleteProfileInput) (*models.User, error) {
	last, err := s.users.LastEmployeeCode(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to determine employee code")
	}
	code := NextEmployeeCode(last)

	user, err := s.users.Execute(ctx, userID,
		(*models.User).CanCompleteProfile,
		func(u *models.User) {
			u.ApplyProfileCompletion(code, in.Profile, strings.ToLower(strings.TrimSpace(in.ManagerEmail)), time.Now())
		},
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}

	s.logger.InfoContext(ctx, "profile completed", "user_id", userID, "employee_code", user.EmployeeCode)
	return user, nil
}

// UpdateRole reassigns an approved account's role. Admin-only at the handler.
func (s *Service) UpdateRole(ctx context.Context, userID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid role")
	}

	user, err := s.users.Execute(ctx, userID,
		func(u *models.User) error {
			if u.Status != models.StatusApproved {
				return dErrors.New(dErrors.CodeInvariantViolation, "role is assigned at approval time")
			}
			return nil
		},
		func(u *models.User) { u.ApplyRoleChange(role, time.Now()) },
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// UpdateProfileInput carries the editable profile fields. Gating fields
// (status, role, profile completeness) are not updatable here.
type UpdateProfileInput struct {
	Name         *string
	Phone        *string
	Profile      *models.Profile
	ManagerEmail *string
}

// UpdateProfile edits presentational account fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.Execute(ctx, userID,
		func(*models.User) error { return nil },
		func(u *models.User) {
			if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
				u.Name = strings.TrimSpace(*in.Name)
			}
			if in.Phone != nil {
				u.Phone = *in.Phone
			}
			if in.Profile != nil {
				u.Profile = *in.Profile
			}
			if in.ManagerEmail != nil {
				u.ManagerEmail = strings.ToLower(strings.TrimSpace(*in.ManagerEmail))
			}
			u.UpdatedAt = time.Now()
		},
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// GetUser loads one account by ID.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// GetUserByEmployeeCode loads one account by its assigned code.
func (s *Service) GetUserByEmployeeCode(ctx context.Context, code string) (*models.User, error) {
	user, err := s.users.FindByEmployeeCode(ctx, code)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// ListPending returns the admin approval queue.
func (s *Service) ListPending(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending users")
	}
	return users, nil
}

// ListAssigned returns the accounts reporting to the given manager.
func (s *Service) ListAssigned(ctx context.Context, managerEmail string) ([]*models.User, error) {
	users, err := s.users.ListByManager(ctx, strings.ToLower(strings.TrimSpace(managerEmail)))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assigned users")
	}
	return users, nil
}

// DeleteUser removes an account entirely. Admin-only at the handler.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return wrapUserErr(err)
	}
	s.logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

// NextEmployeeCode computes the code following the highest assigned one.
// Codes are EMP followed by a zero-padded sequence number: EMP001, EMP002, …
func NextEmployeeCode(last string) string {
	next := 1
	if strings.HasPrefix(last, "EMP") {
		if n, err := strconv.Atoi(last[3:]); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("EMP%03d", next)
}

func wrapUserErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation),
		dErrors.HasCode(err, dErrors.CodeBadRequest),
		dErrors.HasCode(err, dErrors.CodeConflict):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "user store failure")
	}
}
