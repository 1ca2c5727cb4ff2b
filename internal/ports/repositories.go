package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
)

// UserStore defines the interface for the crew member directory. Users are
// created once (by seeding or member creation) and never updated.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
}

// ProjectStore defines the interface for project aggregate access. Reads
// return deep copies so derived views never observe in-flight mutations;
// writes go through Mutate, which serializes per project id.
type ProjectStore interface {
	Create(ctx context.Context, project *entities.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	List(ctx context.Context) ([]*entities.Project, error)
	ListForMember(ctx context.Context, userID uuid.UUID) ([]*entities.Project, error)
	// Mutate applies fn to the live aggregate under the project's write
	// lock. An error from fn is returned as-is; there is no rollback, so
	// fn must validate before touching the aggregate.
	Mutate(ctx context.Context, id uuid.UUID, fn func(p *entities.Project) error) error
}

// ActivityStore defines the interface for the cross-project event log.
type ActivityStore interface {
	Append(ctx context.Context, event *entities.ActivityEvent) error
	List(ctx context.Context, filter FeedFilter) ([]*entities.ActivityEvent, error)
}

// FeedFilter narrows activity feed reads.
type FeedFilter struct {
	ExcludeActorID *uuid.UUID
	ProjectID      *uuid.UUID
	Since          *time.Time
	Limit          int
}
