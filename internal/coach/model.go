package coach

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, apperror.KindNotFound, "coach not found")
	ErrEmptyName     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "name cannot be empty")
	ErrEmptyEmail    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "email cannot be empty")
	ErrEmailTaken    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "coach email already exists")
	ErrNegativePrice = apperror.New(http.StatusBadRequest, apperror.KindValidation, "hourly rate cannot be negative")
)

// Coach is an exclusive resource billed per hour.
type Coach struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	HourlyRate  decimal.Decimal
	IsActive    bool
	Specialties []string
	Bio         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Filter struct {
	ActiveOnly bool
	Specialty  string
	Page       int
	PageSize   int
}
