package http

import (
	"time"

	"github.com/nekogravitycat/sports-booking/internal/availability"
	"github.com/nekogravitycat/sports-booking/internal/booking"
	pricingHttp "github.com/nekogravitycat/sports-booking/internal/pricing/http"
)

type EquipmentLineBody struct {
	Item     string `json:"item" binding:"required,uuid"`
	Quantity int    `json:"quantity"`
}

// ResourceBody is shared by the create, quote and availability endpoints.
type ResourceBody struct {
	CourtID   string              `json:"courtId" binding:"required,uuid"`
	CoachID   string              `json:"coachId" binding:"omitempty,uuid"`
	StartTime time.Time           `json:"startTime" binding:"required"`
	EndTime   time.Time           `json:"endTime" binding:"required"`
	Equipment []EquipmentLineBody `json:"equipment" binding:"omitempty,dive"`
}

func (b ResourceBody) toRequest() booking.ResourceRequest {
	lines := make([]booking.EquipmentLine, len(b.Equipment))
	for i, l := range b.Equipment {
		lines[i] = booking.EquipmentLine{EquipmentID: l.Item, Quantity: l.Quantity}
	}
	return booking.ResourceRequest{
		CourtID:   b.CourtID,
		CoachID:   b.CoachID,
		Equipment: lines,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}

type CreateBookingBody struct {
	User string `json:"user" binding:"required,max=100"`
	ResourceBody
}

type ListBookingsRequest struct {
	User    string `form:"user"`
	Date    string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Status  string `form:"status" binding:"omitempty,oneof=confirmed cancelled waitlist"`
	CourtID string `form:"courtId" binding:"omitempty,uuid"`
}

type EquipmentLineResponse struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type BookingResponse struct {
	ID        string                        `json:"id"`
	User      string                        `json:"user"`
	CourtID   string                        `json:"courtId"`
	CoachID   *string                       `json:"coachId,omitempty"`
	Equipment []EquipmentLineResponse       `json:"equipment"`
	StartTime time.Time                     `json:"startTime"`
	EndTime   time.Time                     `json:"endTime"`
	Status    string                        `json:"status"`
	Price     pricingHttp.BreakdownResponse `json:"price"`
	CreatedAt time.Time                     `json:"createdAt"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	lines := make([]EquipmentLineResponse, len(b.Equipment))
	for i, l := range b.Equipment {
		lines[i] = EquipmentLineResponse{Item: l.EquipmentID, Quantity: l.Quantity}
	}
	return BookingResponse{
		ID:        b.ID,
		User:      b.User,
		CourtID:   b.CourtID,
		CoachID:   b.CoachID,
		Equipment: lines,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		Price:     pricingHttp.NewBreakdownResponse(b.Price),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type AvailabilityResponse struct {
	Available bool                    `json:"available"`
	Conflicts []availability.Conflict `json:"conflicts"`
}

func NewAvailabilityResponse(r *availability.Result) AvailabilityResponse {
	conflicts := r.Conflicts
	if conflicts == nil {
		conflicts = make([]availability.Conflict, 0)
	}
	return AvailabilityResponse{Available: r.Available, Conflicts: conflicts}
}
