package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	identitymodels "hrportal/internal/identity/models"
	identitystore "hrportal/internal/identity/store"
	"hrportal/internal/leave/models"
	"hrportal/internal/leave/store"
	dErrors "hrportal/pkg/domain-errors"
)

type LeaveServiceSuite struct {
	suite.Suite
	users  *identitystore.InMemoryUserStore
	leaves *store.InMemoryLeaveStore
	svc    *Service
}

func (s *LeaveServiceSuite) SetupTest() {
	s.users = identitystore.NewInMemoryUserStore()
	s.leaves = store.NewInMemoryLeaveStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = New(s.leaves, s.users, nil, logger)
}

func TestLeaveServiceSuite(t *testing.T) {
	suite.Run(t, new(LeaveServiceSuite))
}

func (s *LeaveServiceSuite) seedUser(email string, role identitymodels.Role, managerEmail string) *identitymodels.User {
	user, err := identitymodels.NewUser(uuid.New(), "Seeded User", email, "", "hash", time.Now())
	s.Require().NoError(err)
	user.Role = role
	user.Status = identitymodels.StatusApproved
	user.ProfileComplete = true
	user.EmployeeCode = "EMP001"
	user.ManagerEmail = managerEmail
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *LeaveServiceSuite) applyInput() ApplyInput {
	start := time.Now().AddDate(0, 0, 7)
	return ApplyInput{
		Type:      models.TypePlanned,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Reason:    "family event",
	}
}

func (s *LeaveServiceSuite) TestApply() {
	ctx := context.Background()

	s.Run("snapshots applicant details", func() {
		s.seedUser("boss@example.com", identitymodels.RoleManager, "")
		employee := s.seedUser("emp@example.com", identitymodels.RoleUser, "boss@example.com")

		leave, err := s.svc.Apply(ctx, employee.ID, s.applyInput())
		s.Require().NoError(err)
		s.Equal(models.StatusPending, leave.Status)
		s.Equal(employee.Name, leave.EmployeeName)
		s.Equal(employee.EmployeeCode, leave.EmployeeCode)
		s.Equal("boss@example.com", leave.ManagerEmail)
	})

	s.Run("requires an assigned manager", func() {
		employee := s.seedUser("alone@example.com", identitymodels.RoleUser, "")
		_, err := s.svc.Apply(ctx, employee.ID, s.applyInput())
		s.Require().True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("requires the manager account to hold the manager role", func() {
		s.seedUser("peer@example.com", identitymodels.RoleUser, "")
		employee := s.seedUser("misassigned@example.com", identitymodels.RoleUser, "peer@example.com")
		_, err := s.svc.Apply(ctx, employee.ID, s.applyInput())
		s.Require().True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("rejects reversed dates", func() {
		s.seedUser("boss2@example.com", identitymodels.RoleManager, "")
		employee := s.seedUser("dates@example.com", identitymodels.RoleUser, "boss2@example.com")

		in := s.applyInput()
		in.StartDate, in.EndDate = in.EndDate, in.StartDate
		_, err := s.svc.Apply(ctx, employee.ID, in)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("unknown applicant is not found", func() {
		_, err := s.svc.Apply(ctx, uuid.New(), s.applyInput())
		s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LeaveServiceSuite) TestDecide() {
	ctx := context.Background()

	s.seedUser("boss@example.com", identitymodels.RoleManager, "")
	employee := s.seedUser("emp@example.com", identitymodels.RoleUser, "boss@example.com")

	file := func() *models.Leave {
		leave, err := s.svc.Apply(ctx, employee.ID, s.applyInput())
		s.Require().NoError(err)
		return leave
	}

	s.Run("assigned manager approves", func() {
		leave := file()
		decided, err := s.svc.Decide(ctx, leave.ID, models.StatusApproved, "BOSS@example.com", identitymodels.RoleManager)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, decided.Status)
	})

	s.Run("admin decides any application", func() {
		leave := file()
		decided, err := s.svc.Decide(ctx, leave.ID, models.StatusRejected, "admin@example.com", identitymodels.RoleAdmin)
		s.Require().NoError(err)
		s.Equal(models.StatusRejected, decided.Status)
	})

	s.Run("an unassigned manager is forbidden", func() {
		leave := file()
		_, err := s.svc.Decide(ctx, leave.ID, models.StatusApproved, "other@example.com", identitymodels.RoleManager)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("a decided application stays decided", func() {
		leave := file()
		_, err := s.svc.Decide(ctx, leave.ID, models.StatusApproved, "boss@example.com", identitymodels.RoleManager)
		s.Require().NoError(err)
		_, err = s.svc.Decide(ctx, leave.ID, models.StatusRejected, "boss@example.com", identitymodels.RoleManager)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("missing application is not found", func() {
		_, err := s.svc.Decide(ctx, uuid.New(), models.StatusApproved, "boss@example.com", identitymodels.RoleManager)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LeaveServiceSuite) TestListings() {
	ctx := context.Background()

	s.seedUser("boss@example.com", identitymodels.RoleManager, "")
	employee := s.seedUser("emp@example.com", identitymodels.RoleUser, "boss@example.com")
	_, err := s.svc.Apply(ctx, employee.ID, s.applyInput())
	s.Require().NoError(err)

	mine, err := s.svc.MyLeaves(ctx, employee.ID)
	s.Require().NoError(err)
	s.Len(mine, 1)

	queue, err := s.svc.ManagerQueue(ctx, "boss@example.com")
	s.Require().NoError(err)
	s.Len(queue, 1)

	all, err := s.svc.AllLeaves(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	none, err := s.svc.MyLeaves(ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(none)
}
