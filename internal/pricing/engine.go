package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/interval"
)

var (
	one         = decimal.NewFromInt(1)
	secsPerHour = decimal.NewFromInt(3600)
)

// Engine computes price breakdowns. Calendar rules (weekend, peak hours) are
// evaluated in the facility's time zone.
type Engine struct {
	loc *time.Location
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// Evaluate prices a booking of c over iv with the given equipment lines and optional coach.
//
// The indoor premium is applied to the base price before any other fee, so weekend and
// peak-hour multipliers scale the adjusted base. Peak-hour rules surcharge the whole
// booking when any part of it falls inside the window.
func (e *Engine) Evaluate(c *court.Court, iv interval.Interval, lines []equipment.Line, co *coach.Coach, rules []*Rule) (*Breakdown, error) {
	if !iv.Valid() {
		return nil, interval.ErrInvalidInterval
	}

	selected, err := selectRules(rules)
	if err != nil {
		return nil, err
	}

	hours := durationHours(iv)
	base := c.BasePrice.Mul(hours)

	var b Breakdown

	if r, ok := selected[RuleTypeIndoorPremium]; ok && c.Type == court.TypeIndoor {
		adjusted := base
		switch r.ModifierType {
		case ModifierMultiplier:
			adjusted = base.Mul(r.Modifier)
		case ModifierFixed:
			adjusted = base.Add(r.Modifier)
		}
		b.IndoorFee = adjusted.Sub(base)
		base = adjusted
	}
	b.BasePrice = base

	if r, ok := selected[RuleTypeWeekend]; ok && isWeekend(iv.Start.In(e.loc)) {
		b.WeekendFee = surcharge(r, base, hours)
	}

	if r, ok := selected[RuleTypePeakHour]; ok && e.inPeakWindow(r, iv) {
		b.PeakHourFee = surcharge(r, base, hours)
	}

	for _, line := range lines {
		b.EquipmentFee = b.EquipmentFee.Add(
			line.Item.RentalPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Mul(hours),
		)
	}

	if co != nil {
		b.CoachFee = co.HourlyRate.Mul(hours)
	}

	b.round()
	return &b, nil
}

// selectRules keeps the active rules and indexes them by type.
func selectRules(rules []*Rule) (map[RuleType]*Rule, error) {
	selected := make(map[RuleType]*Rule, len(rules))
	for _, r := range rules {
		if r == nil || !r.IsActive {
			continue
		}
		if prev, dup := selected[r.Type]; dup {
			return nil, fmt.Errorf("%w: %s rules %s and %s", ErrDuplicateActiveRule, r.Type, prev.ID, r.ID)
		}
		selected[r.Type] = r
	}
	return selected, nil
}

func durationHours(iv interval.Interval) decimal.Decimal {
	secs := int64(iv.Duration() / time.Second)
	return decimal.NewFromInt(secs).Div(secsPerHour)
}

// surcharge is the fee of a weekend or peak-hour rule. Fixed modifiers are per hour.
func surcharge(r *Rule, base, hours decimal.Decimal) decimal.Decimal {
	switch r.ModifierType {
	case ModifierMultiplier:
		return base.Mul(r.Modifier.Sub(one))
	case ModifierFixed:
		return r.Modifier.Mul(hours)
	}
	return decimal.Zero
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// inPeakWindow compares the booking's clock hours [start, start+duration) with the rule's
// [StartHour, EndHour) using the half-open overlap test. Windows such as 22–2 wrap midnight.
func (e *Engine) inPeakWindow(r *Rule, iv interval.Interval) bool {
	if r.StartHour == nil || r.EndHour == nil || *r.StartHour == *r.EndHour {
		return false
	}

	start := iv.Start.In(e.loc)
	bookStart := float64(start.Hour()) + float64(start.Minute())/60 + float64(start.Second())/3600
	bookEnd := bookStart + iv.Hours()

	winStart := float64(*r.StartHour)
	winEnd := float64(*r.EndHour)
	if winEnd < winStart {
		winEnd += 24
	}

	// Shift the window by whole days so bookings crossing midnight are covered.
	for shift := -24.0; shift <= 24; shift += 24 {
		if bookStart < winEnd+shift && bookEnd > winStart+shift {
			return true
		}
	}
	return false
}

func (b *Breakdown) round() {
	b.BasePrice = b.BasePrice.Round(2)
	b.PeakHourFee = b.PeakHourFee.Round(2)
	b.WeekendFee = b.WeekendFee.Round(2)
	b.IndoorFee = b.IndoorFee.Round(2)
	b.EquipmentFee = b.EquipmentFee.Round(2)
	b.CoachFee = b.CoachFee.Round(2)
	b.Total = b.BasePrice.Add(b.PeakHourFee).Add(b.WeekendFee).Add(b.EquipmentFee).Add(b.CoachFee)
}
