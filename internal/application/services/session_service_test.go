package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/infrastructure/logger"
)

func TestSessionService(t *testing.T) {
	env := newTestEnv(t)
	sessions := NewSessionService(env.users, &logger.Logger{SugaredLogger: zap.NewNop().Sugar()})

	t.Run("defaults to the first seeded user", func(t *testing.T) {
		current, err := sessions.Current(env.ctx)
		require.NoError(t, err)
		require.Equal(t, env.foreman.ID, current.ID)
	})

	t.Run("switching changes the default persona", func(t *testing.T) {
		switched, err := sessions.SwitchUser(env.ctx, env.tiler.ID)
		require.NoError(t, err)
		require.Equal(t, env.tiler.ID, switched.ID)

		current, err := sessions.Current(env.ctx)
		require.NoError(t, err)
		require.Equal(t, env.tiler.ID, current.ID)
	})

	t.Run("unknown user cannot be selected", func(t *testing.T) {
		_, err := sessions.SwitchUser(env.ctx, uuid.New())
		require.ErrorIs(t, err, entities.ErrUserNotFound)
	})

	t.Run("lists personas in creation order", func(t *testing.T) {
		users, err := sessions.ListUsers(env.ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(users), 2)
		require.Equal(t, env.foreman.ID, users[0].ID)
		require.Equal(t, env.tiler.ID, users[1].ID)
	})
}
