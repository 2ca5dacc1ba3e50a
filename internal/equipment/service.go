package equipment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	Type        Type
	TotalStock  int
	RentalPrice decimal.Decimal
	Description string
}

type UpdateRequest struct {
	Name           *string
	Type           *Type
	TotalStock     *int
	AvailableStock *int
	RentalPrice    *decimal.Decimal
	Description    *string
	IsActive       *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Equipment, error)
	GetByID(ctx context.Context, id string) (*Equipment, error)
	List(ctx context.Context, filter Filter) ([]*Equipment, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Equipment, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(e *Equipment) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if !e.Type.Valid() {
		return ErrInvalidType
	}
	if e.TotalStock < 0 || e.AvailableStock < 0 {
		return ErrInvalidStock
	}
	if e.RentalPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Equipment, error) {
	e := &Equipment{
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		TotalStock:     req.TotalStock,
		AvailableStock: req.TotalStock,
		RentalPrice:    req.RentalPrice,
		IsActive:       true,
		Description:    req.Description,
	}
	if err := validate(e); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Equipment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Equipment, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.TotalStock != nil {
		e.TotalStock = *req.TotalStock
	}
	if req.AvailableStock != nil {
		e.AvailableStock = *req.AvailableStock
	}
	// The display counter never exceeds the physical stock.
	if e.AvailableStock > e.TotalStock {
		e.AvailableStock = e.TotalStock
	}
	if req.RentalPrice != nil {
		e.RentalPrice = *req.RentalPrice
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	e.IsActive = false
	return s.repo.Update(ctx, e)
}
