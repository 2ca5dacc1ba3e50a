package court

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
	mu     sync.RWMutex
	courts map[string]Court
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{courts: make(map[string]Court)}
}

func (r *memoryRepository) nameTaken(name, exceptID string) bool {
	for id, c := range r.courts {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(ctx context.Context, c *Court) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(c.Name, "") {
		return ErrNameTaken
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.courts[c.ID] = *c
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Court, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Court
	for _, c := range r.courts {
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		c := c
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	return response.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) Update(ctx context.Context, c *Court) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courts[c.ID]; !ok {
		return ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return ErrNameTaken
	}
	c.UpdatedAt = time.Now().UTC()
	r.courts[c.ID] = *c
	return nil
}
