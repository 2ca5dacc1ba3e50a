package pricing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name         string
	Type         RuleType
	ModifierType ModifierType
	Modifier     decimal.Decimal
	StartHour    *int
	EndHour      *int
	Description  string
}

type UpdateRequest struct {
	Name         *string
	ModifierType *ModifierType
	Modifier     *decimal.Decimal
	StartHour    *int
	EndHour      *int
	Description  *string
	IsActive     *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Rule, error)
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context, filter Filter) ([]*Rule, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Rule, error)
	Deactivate(ctx context.Context, id string) error
	// ActiveRules returns the rule set the engine evaluates.
	ActiveRules(ctx context.Context) ([]*Rule, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validHour(h *int) bool {
	return h != nil && *h >= 0 && *h <= 23
}

func validate(r *Rule) error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if !r.ModifierType.Valid() {
		return ErrInvalidModifierType
	}
	if r.Modifier.IsNegative() {
		return ErrNegativeModifier
	}
	if r.Type == RuleTypePeakHour {
		if !validHour(r.StartHour) || !validHour(r.EndHour) || *r.StartHour == *r.EndHour {
			return ErrInvalidHours
		}
	} else if (r.StartHour != nil && !validHour(r.StartHour)) || (r.EndHour != nil && !validHour(r.EndHour)) {
		return ErrInvalidHours
	}
	return nil
}

// Create stores a new active rule. The repository rejects it with ErrDuplicateActiveRule
// when another active rule of the same type exists.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Rule, error) {
	r := &Rule{
		Name:         strings.TrimSpace(req.Name),
		Type:         req.Type,
		ModifierType: req.ModifierType,
		Modifier:     req.Modifier,
		StartHour:    req.StartHour,
		EndHour:      req.EndHour,
		IsActive:     true,
		Description:  req.Description,
	}
	if r.ModifierType == "" {
		r.ModifierType = ModifierMultiplier
	}
	if err := validate(r); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Rule, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		r.Name = strings.TrimSpace(*req.Name)
	}
	if req.ModifierType != nil {
		r.ModifierType = *req.ModifierType
	}
	if req.Modifier != nil {
		r.Modifier = *req.Modifier
	}
	if req.StartHour != nil {
		r.StartHour = req.StartHour
	}
	if req.EndHour != nil {
		r.EndHour = req.EndHour
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if err := validate(r); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.IsActive {
		return nil
	}
	r.IsActive = false
	return s.repo.Update(ctx, r)
}

func (s *service) ActiveRules(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListActive(ctx)
}
