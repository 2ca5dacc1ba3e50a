package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
)

type ListCoachesRequest struct {
	request.ListParams
	Specialty  string `form:"specialty"`
	ActiveOnly bool   `form:"active"`
}

type CoachResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	HourlyRate  decimal.Decimal `json:"hourlyRate"`
	IsActive    bool            `json:"isActive"`
	Specialties []string        `json:"specialties"`
	Bio         string          `json:"bio"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewCoachResponse(c *coach.Coach) CoachResponse {
	specialties := c.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return CoachResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		HourlyRate:  c.HourlyRate,
		IsActive:    c.IsActive,
		Specialties: specialties,
		Bio:         c.Bio,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateCoachBody struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Email       string          `json:"email" binding:"required,email"`
	Phone       string          `json:"phone"`
	HourlyRate  decimal.Decimal `json:"hourlyRate" binding:"gte=0"`
	Specialties []string        `json:"specialties"`
	Bio         string          `json:"bio"`
}

type UpdateCoachBody struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Phone       *string          `json:"phone"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate" binding:"omitempty,gte=0"`
	Specialties []string         `json:"specialties"`
	Bio         *string          `json:"bio"`
	IsActive    *bool            `json:"isActive"`
}
