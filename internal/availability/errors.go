package availability

import (
	"net/http"
	"strings"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

var (
	ErrInvalidQuantity = apperror.New(http.StatusBadRequest, apperror.KindValidation, "equipment quantity must be positive")
	ErrCourtConflict   = apperror.New(http.StatusBadRequest, apperror.KindCourtConflict, "court is already booked for the requested time")
	ErrCoachConflict   = apperror.New(http.StatusBadRequest, apperror.KindCoachConflict, "coach is already booked for the requested time")
	ErrStockConflict   = apperror.New(http.StatusBadRequest, apperror.KindStockConflict, "not enough equipment in stock for the requested time")
	ErrTimeout         = apperror.New(http.StatusServiceUnavailable, apperror.KindTimeout, "timed out waiting to reserve resources")
)

// Conflict describes one resource that cannot satisfy a request.
type Conflict struct {
	Kind       Kind     `json:"kind"`
	ResourceID string   `json:"resourceId"`
	Requested  int      `json:"requested"`
	Available  int      `json:"available"`
	BookingIDs []string `json:"bookingIds,omitempty"`
}

func (c Conflict) sentinel() error {
	switch c.Kind {
	case KindCourt:
		return ErrCourtConflict
	case KindCoach:
		return ErrCoachConflict
	default:
		return ErrStockConflict
	}
}

// ConflictError is returned when at least one requested resource is taken.
// It matches ErrCourtConflict, ErrCoachConflict or ErrStockConflict with errors.Is,
// in the order court, coach, equipment.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.sentinel().Error()+" ("+c.ResourceID+")")
	}
	return strings.Join(msgs, "; ")
}

func (e *ConflictError) Unwrap() []error {
	seen := make(map[error]bool, 3)
	var errs []error
	for _, c := range e.Conflicts {
		s := c.sentinel()
		if !seen[s] {
			seen[s] = true
			errs = append(errs, s)
		}
	}
	return errs
}

// Details exposes the conflicts in error responses.
func (e *ConflictError) Details() any {
	return e.Conflicts
}

func timeoutError(err error) error {
	return apperror.Wrap(err, ErrTimeout.Code, ErrTimeout.Kind, ErrTimeout.Message)
}
