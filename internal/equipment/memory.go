package equipment

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
)

type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]Equipment
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{items: make(map[string]Equipment)}
}

func (r *memoryRepository) nameTaken(name, exceptID string) bool {
	for id, e := range r.items {
		if id != exceptID && strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(ctx context.Context, e *Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(e.Name, "") {
		return ErrNameTaken
	}
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.items[e.ID] = *e
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Equipment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Equipment
	for _, e := range r.items {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		e := e
		matched = append(matched, &e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	return response.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) Update(ctx context.Context, e *Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[e.ID]; !ok {
		return ErrNotFound
	}
	if r.nameTaken(e.Name, e.ID) {
		return ErrNameTaken
	}
	e.UpdatedAt = time.Now().UTC()
	r.items[e.ID] = *e
	return nil
}
