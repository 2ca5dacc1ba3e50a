package pricing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
)

type memoryRepository struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewMemoryRepository returns a Repository kept in process memory. Like the
// postgres index, it allows at most one active rule per type.
func NewMemoryRepository() Repository {
	return &memoryRepository{rules: make(map[string]Rule)}
}

func (r *memoryRepository) activeConflict(rule *Rule) bool {
	if !rule.IsActive {
		return false
	}
	for id, other := range r.rules {
		if id != rule.ID && other.IsActive && other.Type == rule.Type {
			return true
		}
	}
	return false
}

func cloneRule(r Rule) *Rule {
	if r.StartHour != nil {
		h := *r.StartHour
		r.StartHour = &h
	}
	if r.EndHour != nil {
		h := *r.EndHour
		r.EndHour = &h
	}
	return &r
}

func (r *memoryRepository) Create(ctx context.Context, rule *Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeConflict(rule) {
		return ErrDuplicateActiveRule
	}

	now := time.Now().UTC()
	rule.ID = uuid.NewString()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	r.rules[rule.ID] = *cloneRule(*rule)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRule(rule), nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Rule
	for _, rule := range r.rules {
		if filter.Type != "" && rule.Type != filter.Type {
			continue
		}
		if filter.ActiveOnly && !rule.IsActive {
			continue
		}
		matched = append(matched, cloneRule(rule))
	}
	sortRules(matched)

	return response.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) Update(ctx context.Context, rule *Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[rule.ID]; !ok {
		return ErrNotFound
	}
	if r.activeConflict(rule) {
		return ErrDuplicateActiveRule
	}
	rule.UpdatedAt = time.Now().UTC()
	r.rules[rule.ID] = *cloneRule(*rule)
	return nil
}

func (r *memoryRepository) ListActive(ctx context.Context) ([]*Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*Rule
	for _, rule := range r.rules {
		if rule.IsActive {
			active = append(active, cloneRule(rule))
		}
	}
	sortRules(active)
	return active, nil
}

func sortRules(rules []*Rule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Type != rules[j].Type {
			return rules[i].Type < rules[j].Type
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
}
