package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
)

// ListCourtsRequest defines query parameters for listing courts.
type ListCourtsRequest struct {
	request.ListParams
	Type       string `form:"type" binding:"omitempty,oneof=indoor outdoor"`
	ActiveOnly bool   `form:"active"`
}

type CourtResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	IsActive    bool            `json:"isActive"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewCourtResponse(c *court.Court) CourtResponse {
	return CourtResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		BasePrice:   c.BasePrice,
		IsActive:    c.IsActive,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateCourtBody struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Type        string          `json:"type" binding:"omitempty,oneof=indoor outdoor"`
	BasePrice   decimal.Decimal `json:"basePrice" binding:"gte=0"`
	Description string          `json:"description"`
}

type UpdateCourtBody struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Type        *string          `json:"type" binding:"omitempty,oneof=indoor outdoor"`
	BasePrice   *decimal.Decimal `json:"basePrice" binding:"omitempty,gte=0"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"isActive"`
}
