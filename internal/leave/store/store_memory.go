package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hrportal/internal/leave/models"
	"hrportal/pkg/platform/sentinel"
)

// InMemoryLeaveStore keeps leave applications in a map guarded by a RWMutex.
type InMemoryLeaveStore struct {
	mu     sync.RWMutex
	leaves map[uuid.UUID]*models.Leave
}

func NewInMemoryLeaveStore() *InMemoryLeaveStore {
	return &InMemoryLeaveStore{leaves: make(map[uuid.UUID]*models.Leave)}
}

func (s *InMemoryLeaveStore) Create(ctx context.Context, leave *models.Leave) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *leave
	s.leaves[leave.ID] = &copied
	return nil
}

func (s *InMemoryLeaveStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Leave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leave, ok := s.leaves[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *leave
	return &copied, nil
}

func (s *InMemoryLeaveStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.Leave) error, apply func(*models.Leave)) (*models.Leave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leave, ok := s.leaves[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(leave); err != nil {
		return nil, err
	}
	apply(leave)
	copied := *leave
	return &copied, nil
}

func (s *InMemoryLeaveStore) List(ctx context.Context) ([]*models.Leave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*models.Leave) bool { return true }), nil
}

func (s *InMemoryLeaveStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Leave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(l *models.Leave) bool { return l.UserID == userID }), nil
}

func (s *InMemoryLeaveStore) ListByManager(ctx context.Context, managerEmail string) ([]*models.Leave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(l *models.Leave) bool {
		return strings.EqualFold(l.ManagerEmail, managerEmail)
	}), nil
}

// collect returns copies, newest first, matching the portal's listings.
// Must be called while holding s.mu.
func (s *InMemoryLeaveStore) collect(match func(*models.Leave) bool) []*models.Leave {
	out := make([]*models.Leave, 0)
	for _, leave := range s.leaves {
		if match(leave) {
			copied := *leave
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
