package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hrportal/internal/leave/models"
	"hrportal/pkg/platform/sentinel"
)

type InMemoryLeaveStoreSuite struct {
	suite.Suite
	store *InMemoryLeaveStore
}

func (s *InMemoryLeaveStoreSuite) SetupTest() {
	s.store = NewInMemoryLeaveStore()
}

func TestInMemoryLeaveStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryLeaveStoreSuite))
}

func (s *InMemoryLeaveStoreSuite) newLeave(userID uuid.UUID, managerEmail string, createdAt time.Time) *models.Leave {
	leave, err := models.NewLeave(
		uuid.New(), userID,
		"Test Employee", "EMP001", managerEmail,
		models.TypePlanned,
		createdAt.AddDate(0, 0, 7), createdAt.AddDate(0, 0, 9),
		"family event", createdAt,
	)
	s.Require().NoError(err)
	return leave
}

func (s *InMemoryLeaveStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	leave := s.newLeave(uuid.New(), "boss@example.com", time.Now())
	s.Require().NoError(s.store.Create(ctx, leave))

	found, err := s.store.FindByID(ctx, leave.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, found.Status)
	s.Equal(leave.Reason, found.Reason)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryLeaveStoreSuite) TestExecute() {
	ctx := context.Background()

	leave := s.newLeave(uuid.New(), "boss@example.com", time.Now())
	s.Require().NoError(s.store.Create(ctx, leave))

	s.Run("applies a decision", func() {
		decided, err := s.store.Execute(ctx, leave.ID,
			(*models.Leave).CanDecide,
			func(l *models.Leave) { l.ApplyDecision(models.StatusApproved, time.Now()) },
		)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, decided.Status)
	})

	s.Run("second decision fails validation", func() {
		_, err := s.store.Execute(ctx, leave.ID,
			(*models.Leave).CanDecide,
			func(l *models.Leave) { l.ApplyDecision(models.StatusRejected, time.Now()) },
		)
		s.Require().Error(err)

		stored, err := s.store.FindByID(ctx, leave.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, stored.Status)
	})

	s.Run("missing leave is not found", func() {
		_, err := s.store.Execute(ctx, uuid.New(),
			func(*models.Leave) error { return nil },
			func(*models.Leave) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryLeaveStoreSuite) TestListings() {
	ctx := context.Background()
	base := time.Now()

	alice := uuid.New()
	older := s.newLeave(alice, "boss@example.com", base.Add(-time.Hour))
	newer := s.newLeave(alice, "boss@example.com", base)
	other := s.newLeave(uuid.New(), "other@example.com", base.Add(-time.Minute))
	for _, l := range []*models.Leave{older, newer, other} {
		s.Require().NoError(s.store.Create(ctx, l))
	}

	s.Run("list returns everything newest first", func() {
		leaves, err := s.store.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(leaves, 3)
		s.Equal(newer.ID, leaves[0].ID)
	})

	s.Run("list by user filters to the applicant", func() {
		leaves, err := s.store.ListByUser(ctx, alice)
		s.Require().NoError(err)
		s.Require().Len(leaves, 2)
		s.Equal(newer.ID, leaves[0].ID)
		s.Equal(older.ID, leaves[1].ID)
	})

	s.Run("list by manager matches case insensitively", func() {
		leaves, err := s.store.ListByManager(ctx, "BOSS@example.com")
		s.Require().NoError(err)
		s.Len(leaves, 2)
	})
}
