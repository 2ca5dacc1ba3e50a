// Package interval implements half-open time intervals and the overlap
// predicate every availability decision is built on.
package interval

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

var ErrInvalidInterval = apperror.New(http.StatusBadRequest, apperror.KindValidation, "start time must be before end time")

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New returns the interval [start, end) or ErrInvalidInterval unless start < end.
func New(start, end time.Time) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if !iv.Valid() {
		return Interval{}, ErrInvalidInterval
	}
	return iv, nil
}

// Valid reports whether the interval is non-empty.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether i and o share at least one instant.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i, o)
}

// Overlaps is the canonical predicate: [s1,e1) and [s2,e2) overlap iff s1 < e2 and s2 < e1.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Hours returns the duration in (possibly fractional) hours.
func (i Interval) Hours() float64 {
	return i.Duration().Hours()
}

// In returns the interval with both bounds converted to loc.
func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// Day returns the calendar day containing t, as observed in loc.
func Day(t time.Time, loc *time.Location) Interval {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether t lies in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}
