package court

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, apperror.KindNotFound, "court not found")
	ErrEmptyName     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "name cannot be empty")
	ErrNameTaken     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "court name already exists")
	ErrInvalidType   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "court type must be indoor or outdoor")
	ErrNegativePrice = apperror.New(http.StatusBadRequest, apperror.KindValidation, "base price cannot be negative")
)

type Type string

const (
	TypeIndoor  Type = "indoor"
	TypeOutdoor Type = "outdoor"
)

func (t Type) Valid() bool {
	return t == TypeIndoor || t == TypeOutdoor
}

// Court is an exclusive resource: at most one confirmed booking may hold it at any instant.
type Court struct {
	ID          string
	Name        string
	Type        Type
	BasePrice   decimal.Decimal // per hour
	IsActive    bool
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing courts.
type Filter struct {
	Type       Type
	ActiveOnly bool
	Page       int
	PageSize   int
}
