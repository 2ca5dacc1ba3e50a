package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/sports-booking/internal/api"
	"github.com/nekogravitycat/sports-booking/internal/booking"
	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/pkg/mq"
	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	// DBPool selects the postgres repositories; nil keeps everything in memory.
	DBPool *pgxpool.Pool

	Location           *time.Location
	ReservationTimeout time.Duration

	// Publisher receives booking events; nil discards them.
	Publisher booking.EventPublisher
	Logger    *slog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router           *gin.Engine
	CourtService     court.Service
	CoachService     coach.Service
	EquipmentService equipment.Service
	PricingService   pricing.Service
	BookingService   booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	request.RegisterValidators()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var publisher booking.EventPublisher = mq.NopPublisher{}
	if cfg.Publisher != nil {
		publisher = cfg.Publisher
	}

	// Repositories
	var (
		courtRepo     court.Repository
		coachRepo     coach.Repository
		equipmentRepo equipment.Repository
		ruleRepo      pricing.Repository
		bookingRepo   booking.Repository
	)
	if cfg.DBPool != nil {
		courtRepo = court.NewPgxRepository(cfg.DBPool)
		coachRepo = coach.NewPgxRepository(cfg.DBPool)
		equipmentRepo = equipment.NewPgxRepository(cfg.DBPool)
		ruleRepo = pricing.NewPgxRepository(cfg.DBPool)
		bookingRepo = booking.NewPgxRepository(cfg.DBPool)
	} else {
		courtRepo = court.NewMemoryRepository()
		coachRepo = coach.NewMemoryRepository()
		equipmentRepo = equipment.NewMemoryRepository()
		ruleRepo = pricing.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
	}

	// Catalog Modules
	courtService := court.NewService(courtRepo)
	coachService := coach.NewService(coachRepo)
	equipmentService := equipment.NewService(equipmentRepo)
	pricingService := pricing.NewService(ruleRepo)

	// Booking Module
	bookingService := booking.NewService(
		bookingRepo,
		booking.Resources{Courts: courtService, Coaches: coachService, Equipment: equipmentService},
		pricingService,
		publisher,
		logger,
		booking.Config{Location: cfg.Location, ReservationTimeout: cfg.ReservationTimeout},
	)

	// API Router Config
	routerParams := api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		CourtService:     courtService,
		CoachService:     coachService,
		EquipmentService: equipmentService,
		PricingService:   pricingService,
		BookingService:   bookingService,
	}
	if cfg.DBPool != nil {
		routerParams.HealthCheck = cfg.DBPool.Ping
	}

	return &Container{
		Router:           api.NewRouter(routerParams),
		CourtService:     courtService,
		CoachService:     coachService,
		EquipmentService: equipmentService,
		PricingService:   pricingService,
		BookingService:   bookingService,
	}
}
