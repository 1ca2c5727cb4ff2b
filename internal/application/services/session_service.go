package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// SessionServiceImpl is the mock identity surface: it enumerates the seeded
// personas and tracks which one is the default acting user. It only supplies
// a fallback for requests that did not name a user; the model itself never
// reads it.
type SessionServiceImpl struct {
	users  ports.UserStore
	logger *logger.Logger

	mu      sync.RWMutex
	current uuid.UUID
}

// NewSessionService creates a new session service
func NewSessionService(users ports.UserStore, logger *logger.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{
		users:  users,
		logger: logger,
	}
}

// ListUsers enumerates the available personas.
func (s *SessionServiceImpl) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Current returns the current persona, defaulting to the first seeded user
// when none has been selected.
func (s *SessionServiceImpl) Current(ctx context.Context) (*entities.User, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current != uuid.Nil {
		user, err := s.users.GetByID(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("current user not found: %w", err)
		}
		return user, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, entities.ErrUserNotFound
	}
	return users[0], nil
}

// SwitchUser selects a different persona as the default acting user.
func (s *SessionServiceImpl) SwitchUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	s.mu.Lock()
	s.current = user.ID
	s.mu.Unlock()

	s.logger.Info("Switched current user", "user_id", user.ID, "display_name", user.DisplayName)

	return user, nil
}
