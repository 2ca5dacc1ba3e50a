package pricing

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, apperror.KindNotFound, "pricing rule not found")
	ErrEmptyName           = apperror.New(http.StatusBadRequest, apperror.KindValidation, "name cannot be empty")
	ErrInvalidType         = apperror.New(http.StatusBadRequest, apperror.KindValidation, "invalid pricing rule type")
	ErrInvalidModifierType = apperror.New(http.StatusBadRequest, apperror.KindValidation, "modifier type must be multiplier or fixed")
	ErrNegativeModifier    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "modifier cannot be negative")
	ErrInvalidHours        = apperror.New(http.StatusBadRequest, apperror.KindValidation, "peak hour rules need distinct start and end hours between 0 and 23")
	ErrDuplicateActiveRule = apperror.New(http.StatusConflict, apperror.KindConfiguration, "only one active pricing rule per type is allowed")
)

type RuleType string

const (
	RuleTypePeakHour      RuleType = "peak_hour"
	RuleTypeWeekend       RuleType = "weekend"
	RuleTypeIndoorPremium RuleType = "indoor_premium"
	RuleTypeEquipment     RuleType = "equipment"
	RuleTypeHoliday       RuleType = "holiday"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleTypePeakHour, RuleTypeWeekend, RuleTypeIndoorPremium, RuleTypeEquipment, RuleTypeHoliday:
		return true
	}
	return false
}

type ModifierType string

const (
	ModifierMultiplier ModifierType = "multiplier"
	ModifierFixed      ModifierType = "fixed"
)

func (t ModifierType) Valid() bool {
	return t == ModifierMultiplier || t == ModifierFixed
}

// Rule is an administratively configured surcharge.
type Rule struct {
	ID           string
	Name         string
	Type         RuleType
	ModifierType ModifierType
	Modifier     decimal.Decimal
	StartHour    *int // peak_hour window start, inclusive
	EndHour      *int // peak_hour window end, exclusive
	IsActive     bool
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Filter struct {
	Type       RuleType
	ActiveOnly bool
	Page       int
	PageSize   int
}

// Breakdown is the itemised price of one booking. IndoorFee is already contained in
// BasePrice; Total is BasePrice + PeakHourFee + WeekendFee + EquipmentFee + CoachFee.
type Breakdown struct {
	BasePrice    decimal.Decimal
	PeakHourFee  decimal.Decimal
	WeekendFee   decimal.Decimal
	IndoorFee    decimal.Decimal
	EquipmentFee decimal.Decimal
	CoachFee     decimal.Decimal
	Total        decimal.Decimal
}
