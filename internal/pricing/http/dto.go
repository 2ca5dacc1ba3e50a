package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
)

type ListRulesRequest struct {
	request.ListParams
	Type       string `form:"type" binding:"omitempty,oneof=peak_hour weekend indoor_premium equipment holiday"`
	ActiveOnly bool   `form:"active"`
}

type RuleResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	ModifierType string          `json:"modifierType"`
	Modifier     decimal.Decimal `json:"modifier"`
	StartHour    *int            `json:"startHour,omitempty"`
	EndHour      *int            `json:"endHour,omitempty"`
	IsActive     bool            `json:"isActive"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewRuleResponse(r *pricing.Rule) RuleResponse {
	return RuleResponse{
		ID:           r.ID,
		Name:         r.Name,
		Type:         string(r.Type),
		ModifierType: string(r.ModifierType),
		Modifier:     r.Modifier,
		StartHour:    r.StartHour,
		EndHour:      r.EndHour,
		IsActive:     r.IsActive,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type CreateRuleBody struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Type         string          `json:"type" binding:"required,oneof=peak_hour weekend indoor_premium equipment holiday"`
	ModifierType string          `json:"modifierType" binding:"omitempty,oneof=multiplier fixed"`
	Modifier     decimal.Decimal `json:"modifier" binding:"gte=0"`
	StartHour    *int            `json:"startHour" binding:"omitempty,hour"`
	EndHour      *int            `json:"endHour" binding:"omitempty,hour"`
	Description  string          `json:"description"`
}

type UpdateRuleBody struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	ModifierType *string          `json:"modifierType" binding:"omitempty,oneof=multiplier fixed"`
	Modifier     *decimal.Decimal `json:"modifier" binding:"omitempty,gte=0"`
	StartHour    *int             `json:"startHour" binding:"omitempty,hour"`
	EndHour      *int             `json:"endHour" binding:"omitempty,hour"`
	Description  *string          `json:"description"`
	IsActive     *bool            `json:"isActive"`
}

// BreakdownResponse is the JSON form of a price breakdown, shared with the booking endpoints.
type BreakdownResponse struct {
	BasePrice    decimal.Decimal `json:"basePrice"`
	PeakHourFee  decimal.Decimal `json:"peakHourFee"`
	WeekendFee   decimal.Decimal `json:"weekendFee"`
	IndoorFee    decimal.Decimal `json:"indoorFee"`
	EquipmentFee decimal.Decimal `json:"equipmentFee"`
	CoachFee     decimal.Decimal `json:"coachFee"`
	Total        decimal.Decimal `json:"total"`
}

func NewBreakdownResponse(b pricing.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		BasePrice:    b.BasePrice,
		PeakHourFee:  b.PeakHourFee,
		WeekendFee:   b.WeekendFee,
		IndoorFee:    b.IndoorFee,
		EquipmentFee: b.EquipmentFee,
		CoachFee:     b.CoachFee,
		Total:        b.Total,
	}
}
