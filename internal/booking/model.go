package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, apperror.KindNotFound, "booking not found")
	ErrEmptyUser     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "user cannot be empty")
	ErrMissingCourt  = apperror.New(http.StatusBadRequest, apperror.KindValidation, "court id is required")
	ErrInvalidStatus = apperror.New(http.StatusBadRequest, apperror.KindValidation, "invalid booking status")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusWaitlist  Status = "waitlist"
)

func (s Status) Valid() bool {
	return s == StatusConfirmed || s == StatusCancelled || s == StatusWaitlist
}

type EquipmentLine struct {
	EquipmentID string
	Quantity    int
}

type Booking struct {
	ID        string
	User      string
	CourtID   string
	CoachID   *string
	Equipment []EquipmentLine
	StartTime time.Time
	EndTime   time.Time
	Status    Status
	Price     pricing.Breakdown
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter selects bookings for listing. StartFrom and StartBefore bound StartTime to
// [StartFrom, StartBefore) when set.
type Filter struct {
	User        string
	CourtID     string
	Status      Status
	StartFrom   *time.Time
	StartBefore *time.Time
}

// Event is the payload published on booking.created and booking.cancelled.
type Event struct {
	BookingID string    `json:"bookingId"`
	User      string    `json:"user"`
	CourtID   string    `json:"courtId"`
	CoachID   *string   `json:"coachId,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    Status    `json:"status"`
	Total     string    `json:"total"`
}

func newEvent(b *Booking) Event {
	return Event{
		BookingID: b.ID,
		User:      b.User,
		CourtID:   b.CourtID,
		CoachID:   b.CoachID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		Total:     b.Price.Total.StringFixed(2),
	}
}
