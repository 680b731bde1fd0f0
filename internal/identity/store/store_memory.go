package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hrportal/internal/identity/models"
	"hrportal/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in a map guarded by a RWMutex. It backs
// development mode and tests; production uses the Postgres store.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (s *InMemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return sentinel.ErrAlreadyUsed
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *InMemoryUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *InMemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) FindByEmployeeCode(ctx context.Context, code string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.EmployeeCode != "" && user.EmployeeCode == code {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.User) error, apply func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(user); err != nil {
		return nil, err
	}
	apply(user)
	copied := *user
	return &copied, nil
}

func (s *InMemoryUserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*models.User) bool { return true }), nil
}

func (s *InMemoryUserStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(u *models.User) bool { return u.Status == status }), nil
}

func (s *InMemoryUserStore) ListByManager(ctx context.Context, managerEmail string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(u *models.User) bool {
		return strings.EqualFold(u.ManagerEmail, managerEmail)
	}), nil
}

func (s *InMemoryUserStore) LastEmployeeCode(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := ""
	for _, user := range s.users {
		if user.EmployeeCode > last {
			last = user.EmployeeCode
		}
	}
	return last, nil
}

func (s *InMemoryUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// collect returns copies, sorted by creation time for stable listings.
// Must be called while holding s.mu.
func (s *InMemoryUserStore) collect(match func(*models.User) bool) []*models.User {
	out := make([]*models.User, 0)
	for _, user := range s.users {
		if match(user) {
			copied := *user
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
