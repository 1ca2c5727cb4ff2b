package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

// ProjectStoreImpl implements ports.ProjectStore on process memory. Each
// project has its own lock, so mutations are serialized per project id while
// unrelated projects proceed independently. Reads hand out deep copies.
type ProjectStoreImpl struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*projectEntry
}

type projectEntry struct {
	mu      sync.Mutex
	project *entities.Project
}

// NewProjectStore creates a new in-memory project store.
func NewProjectStore() ports.ProjectStore {
	return &ProjectStoreImpl{
		projects: make(map[uuid.UUID]*projectEntry),
	}
}

func (s *ProjectStoreImpl) Create(ctx context.Context, project *entities.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.UnreadTaskIDs == nil {
		project.UnreadTaskIDs = make(map[uuid.UUID][]uuid.UUID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = &projectEntry{project: project.Clone()}
	return nil
}

func (s *ProjectStoreImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.project.Clone(), nil
}

func (s *ProjectStoreImpl) List(ctx context.Context) ([]*entities.Project, error) {
	return s.list(func(p *entities.Project) bool { return true })
}

func (s *ProjectStoreImpl) ListForMember(ctx context.Context, userID uuid.UUID) ([]*entities.Project, error) {
	return s.list(func(p *entities.Project) bool { return p.HasMember(userID) })
}

func (s *ProjectStoreImpl) Mutate(ctx context.Context, id uuid.UUID, fn func(p *entities.Project) error) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.project)
}

func (s *ProjectStoreImpl) entry(id uuid.UUID) (*projectEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.projects[id]
	if !ok {
		return nil, entities.ErrProjectNotFound
	}
	return entry, nil
}

func (s *ProjectStoreImpl) list(keep func(*entities.Project) bool) ([]*entities.Project, error) {
	s.mu.RLock()
	entries := make([]*projectEntry, 0, len(s.projects))
	for _, e := range s.projects {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	projects := make([]*entities.Project, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if keep(e.project) {
			projects = append(projects, e.project.Clone())
		}
		e.mu.Unlock()
	}

	// Most recently active first, matching the project list in the app.
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastActivity.After(projects[j].LastActivity)
	})

	return projects, nil
}
