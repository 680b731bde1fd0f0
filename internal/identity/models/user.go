package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "hrportal/pkg/domain-errors"
)

// Role is the portal-wide access level of a user.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Level places roles on the total order admin > manager > user.
// A role may access scoped areas at or below its own level.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleManager || r == RoleAdmin
}

// ParseRole validates an externally supplied role string.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid role")
	}
	return r, nil
}

// Status is the admin-controlled approval state of an account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Profile holds the onboarding form fields an employee fills in after
// approval. None of these participate in gating decisions.
type Profile struct {
	Designation      string `json:"designation"`
	Process          string `json:"process"`
	DateOfJoining    string `json:"date_of_joining"`
	ShiftTiming      string `json:"shift_timing"`
	WorkLocation     string `json:"work_location"`
	CurrentCity      string `json:"current_city"`
	SystemServiceTag string `json:"system_service_tag"`
	EmploymentType   string `json:"employment_type"`
	HoldingAssets    string `json:"holding_assets"`
}

// User is the stored account record.
//
// Invariants:
//   - Email is unique across the store
//   - Status moves pending → approved/rejected by admin action only;
//     an approved account reverts only through an explicit admin rejection
//   - Role is assigned at approval time and mutable only by an admin afterward
//   - ProfileComplete never transitions back to false
//   - EmployeeCode is assigned once, at profile completion
type User struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"role"`
	Status          Status    `json:"status"`
	ProfileComplete bool      `json:"profile_complete"`
	EmployeeCode    string    `json:"employee_code,omitempty"`
	Profile         Profile   `json:"profile"`
	ManagerEmail    string    `json:"manager_email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUser builds a freshly registered account: pending, role user, profile
// incomplete. Approval and onboarding happen later through explicit actions.
func NewUser(id uuid.UUID, name, email, phone, passwordHash string, now time.Time) (*User, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name cannot be empty")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanApprove checks whether the account may transition to approved.
func (u *User) CanApprove() error {
	if u.Status == StatusApproved {
		return dErrors.New(dErrors.CodeInvariantViolation, "user is already approved")
	}
	return nil
}

// ApplyApproval approves the account and assigns its role.
// Call CanApprove first to validate the transition.
func (u *User) ApplyApproval(role Role, now time.Time) {
	u.Status = StatusApproved
	u.Role = role
	u.UpdatedAt = now
}

// ApplyRejection rejects the account. Rejection is always permitted; it is
// the only path that reverts an approved account.
func (u *User) ApplyRejection(now time.Time) {
	u.Status = StatusRejected
	u.UpdatedAt = now
}

// CanCompleteProfile checks whether the onboarding form may be submitted.
func (u *User) CanCompleteProfile() error {
	if u.Status != StatusApproved {
		return dErrors.New(dErrors.CodeInvariantViolation, "account is not approved")
	}
	return nil
}

// ApplyProfileCompletion records the onboarding form, assigns the employee
// code on first completion, and marks the profile complete. Re-submission
// updates the form fields but never changes the code or un-completes.
func (u *User) ApplyProfileCompletion(code string, profile Profile, managerEmail string, now time.Time) {
	if u.EmployeeCode == "" {
		u.EmployeeCode = code
	}
	u.Profile = profile
	u.ManagerEmail = managerEmail
	u.ProfileComplete = true
	u.UpdatedAt = now
}

// ApplyRoleChange reassigns the role after approval. Admin-only at the
// service boundary.
func (u *User) ApplyRoleChange(role Role, now time.Time) {
	u.Role = role
	u.UpdatedAt = now
}
