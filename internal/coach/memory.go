package coach

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
)

type memoryRepository struct {
	mu      sync.RWMutex
	coaches map[string]Coach
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{coaches: make(map[string]Coach)}
}

func clone(c Coach) *Coach {
	c.Specialties = slices.Clone(c.Specialties)
	return &c
}

func (r *memoryRepository) emailTaken(email, exceptID string) bool {
	for id, c := range r.coaches {
		if id != exceptID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(ctx context.Context, c *Coach) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(c.Email, "") {
		return ErrEmailTaken
	}
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.coaches[c.ID] = *clone(*c)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Coach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coaches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Coach, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Coach
	for _, c := range r.coaches {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.Specialty != "" && !slices.Contains(c.Specialties, filter.Specialty) {
			continue
		}
		matched = append(matched, clone(c))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	return response.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) Update(ctx context.Context, c *Coach) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coaches[c.ID]; !ok {
		return ErrNotFound
	}
	if r.emailTaken(c.Email, c.ID) {
		return ErrEmailTaken
	}
	c.UpdatedAt = time.Now().UTC()
	r.coaches[c.ID] = *clone(*c)
	return nil
}
