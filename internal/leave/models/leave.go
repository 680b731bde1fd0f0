package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "hrportal/pkg/domain-errors"
)

// Type is the category of a leave application.
type Type string

const (
	TypePlanned   Type = "planned"
	TypeUnplanned Type = "unplanned"
	TypeSick      Type = "sick"
)

// ParseType validates an externally supplied leave type.
func ParseType(raw string) (Type, error) {
	t := Type(raw)
	if t != TypePlanned && t != TypeUnplanned && t != TypeSick {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid leave type")
	}
	return t, nil
}

// Status is the adjudication state of a leave application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseDecision validates a manager's decision; only the two terminal states
// are acceptable input.
func ParseDecision(raw string) (Status, error) {
	s := Status(raw)
	if s != StatusApproved && s != StatusRejected {
		return "", dErrors.New(dErrors.CodeBadRequest, "decision must be approved or rejected")
	}
	return s, nil
}

// Leave is a stored leave application. Employee name and code are snapshotted
// at application time so manager listings need no join.
//
// Invariants:
//   - EndDate is never before StartDate
//   - Status starts pending and moves once, to approved or rejected
//   - Only the assigned manager (or an admin) decides it
type Leave struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	EmployeeName string    `json:"employee_name"`
	EmployeeCode string    `json:"employee_code"`
	ManagerEmail string    `json:"manager_email"`
	Type         Type      `json:"leave_type"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Reason       string    `json:"reason"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewLeave builds a pending application.
func NewLeave(id, userID uuid.UUID, employeeName, employeeCode, managerEmail string, leaveType Type, start, end time.Time, reason string, now time.Time) (*Leave, error) {
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reason cannot be empty")
	}
	if end.Before(start) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "end date is before start date")
	}
	if managerEmail == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "manager email cannot be empty")
	}
	return &Leave{
		ID:           id,
		UserID:       userID,
		EmployeeName: employeeName,
		EmployeeCode: employeeCode,
		ManagerEmail: managerEmail,
		Type:         leaveType,
		StartDate:    start,
		EndDate:      end,
		Reason:       reason,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanDecide checks whether the application is still open.
func (l *Leave) CanDecide() error {
	if l.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "leave application is already decided")
	}
	return nil
}

// ApplyDecision records the terminal status. Call CanDecide first.
func (l *Leave) ApplyDecision(status Status, now time.Time) {
	l.Status = status
	l.UpdatedAt = now
}
