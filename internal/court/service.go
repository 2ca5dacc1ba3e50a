package court

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	Type        Type
	BasePrice   decimal.Decimal
	Description string
}

type UpdateRequest struct {
	Name        *string
	Type        *Type
	BasePrice   *decimal.Decimal
	Description *string
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Court, error)
	GetByID(ctx context.Context, id string) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Court, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(c *Court) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	if c.BasePrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Court, error) {
	c := &Court{
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		BasePrice:   req.BasePrice,
		IsActive:    true,
		Description: req.Description,
	}
	if c.Type == "" {
		c.Type = TypeIndoor
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Court, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.BasePrice != nil {
		c.BasePrice = *req.BasePrice
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Deactivate hides the court from new bookings; existing bookings keep referencing it.
func (s *service) Deactivate(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.IsActive = false
	return s.repo.Update(ctx, c)
}
