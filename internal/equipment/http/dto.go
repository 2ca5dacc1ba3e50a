package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
)

type ListEquipmentRequest struct {
	request.ListParams
	Type       string `form:"type" binding:"omitempty,oneof=racket shoes other"`
	ActiveOnly bool   `form:"active"`
}

type EquipmentResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	TotalStock     int             `json:"totalStock"`
	AvailableStock int             `json:"availableStock"`
	RentalPrice    decimal.Decimal `json:"rentalPrice"`
	IsActive       bool            `json:"isActive"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func NewEquipmentResponse(e *equipment.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:             e.ID,
		Name:           e.Name,
		Type:           string(e.Type),
		TotalStock:     e.TotalStock,
		AvailableStock: e.AvailableStock,
		RentalPrice:    e.RentalPrice,
		IsActive:       e.IsActive,
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

type CreateEquipmentBody struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Type        string          `json:"type" binding:"required,oneof=racket shoes other"`
	TotalStock  int             `json:"totalStock" binding:"gte=0"`
	RentalPrice decimal.Decimal `json:"rentalPrice" binding:"gte=0"`
	Description string          `json:"description"`
}

type UpdateEquipmentBody struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Type           *string          `json:"type" binding:"omitempty,oneof=racket shoes other"`
	TotalStock     *int             `json:"totalStock" binding:"omitempty,gte=0"`
	AvailableStock *int             `json:"availableStock" binding:"omitempty,gte=0"`
	RentalPrice    *decimal.Decimal `json:"rentalPrice" binding:"omitempty,gte=0"`
	Description    *string          `json:"description"`
	IsActive       *bool            `json:"isActive"`
}
