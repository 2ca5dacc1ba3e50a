package coach

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	Email       string
	Phone       string
	HourlyRate  decimal.Decimal
	Specialties []string
	Bio         string
}

type UpdateRequest struct {
	Name        *string
	Email       *string
	Phone       *string
	HourlyRate  *decimal.Decimal
	Specialties []string
	Bio         *string
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Coach, error)
	GetByID(ctx context.Context, id string) (*Coach, error)
	List(ctx context.Context, filter Filter) ([]*Coach, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Coach, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(c *Coach) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmptyEmail
	}
	if c.HourlyRate.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Coach, error) {
	c := &Coach{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		HourlyRate:  req.HourlyRate,
		IsActive:    true,
		Specialties: req.Specialties,
		Bio:         req.Bio,
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Coach, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Coach, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Coach, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.HourlyRate != nil {
		c.HourlyRate = *req.HourlyRate
	}
	if req.Specialties != nil {
		c.Specialties = req.Specialties
	}
	if req.Bio != nil {
		c.Bio = *req.Bio
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

func (s *service) Deactivate(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.IsActive = false
	return s.repo.Update(ctx, c)
}
