package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

// UserStoreImpl implements ports.UserStore on process memory.
type UserStoreImpl struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entities.User
	order []uuid.UUID
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() ports.UserStore {
	return &UserStoreImpl{
		users: make(map[uuid.UUID]*entities.User),
	}
}

func (s *UserStoreImpl) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		s.order = append(s.order, user.ID)
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *UserStoreImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *UserStoreImpl) List(ctx context.Context) ([]*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*entities.User, 0, len(s.order))
	for _, id := range s.order {
		u := *s.users[id]
		users = append(users, &u)
	}
	return users, nil
}

// ActivityStoreImpl implements ports.ActivityStore as an append-only
// in-memory event log. Growth is unbounded for the life of the process.
type ActivityStoreImpl struct {
	mu     sync.RWMutex
	events []entities.ActivityEvent
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() ports.ActivityStore {
	return &ActivityStoreImpl{}
}

func (s *ActivityStoreImpl) Append(ctx context.Context, event *entities.ActivityEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *ActivityStoreImpl) List(ctx context.Context, filter ports.FeedFilter) ([]*entities.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*entities.ActivityEvent, 0, len(s.events))
	for i := range s.events {
		e := s.events[i]
		if filter.ExcludeActorID != nil && e.ActorID == *filter.ExcludeActorID {
			continue
		}
		if filter.ProjectID != nil && e.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Since != nil && e.OccurredAt.Before(*filter.Since) {
			continue
		}
		events = append(events, &e)
	}

	// Newest first.
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}

	return events, nil
}
