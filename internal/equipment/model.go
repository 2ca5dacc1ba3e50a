package equipment

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, apperror.KindNotFound, "equipment not found")
	ErrEmptyName     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "name cannot be empty")
	ErrNameTaken     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "equipment name already exists")
	ErrInvalidType   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "equipment type must be racket, shoes or other")
	ErrInvalidStock  = apperror.New(http.StatusBadRequest, apperror.KindValidation, "stock cannot be negative")
	ErrNegativePrice = apperror.New(http.StatusBadRequest, apperror.KindValidation, "rental price cannot be negative")
)

type Type string

const (
	TypeRacket Type = "racket"
	TypeShoes  Type = "shoes"
	TypeOther  Type = "other"
)

func (t Type) Valid() bool {
	return t == TypeRacket || t == TypeShoes || t == TypeOther
}

// Equipment is a pooled SKU. Reservations are gated on TotalStock minus the quantities
// held by overlapping confirmed bookings; AvailableStock is a display value only.
type Equipment struct {
	ID             string
	Name           string
	Type           Type
	TotalStock     int
	AvailableStock int
	RentalPrice    decimal.Decimal // per item per hour
	IsActive       bool
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Line is a resolved request for Quantity units of Item.
type Line struct {
	Item     *Equipment
	Quantity int
}

type Filter struct {
	Type       Type
	ActiveOnly bool
	Page       int
	PageSize   int
}
