package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/sports-booking/internal/booking"
	bookingHttp "github.com/nekogravitycat/sports-booking/internal/booking/http"
	"github.com/nekogravitycat/sports-booking/internal/coach"
	coachHttp "github.com/nekogravitycat/sports-booking/internal/coach/http"
	"github.com/nekogravitycat/sports-booking/internal/court"
	courtHttp "github.com/nekogravitycat/sports-booking/internal/court/http"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	equipmentHttp "github.com/nekogravitycat/sports-booking/internal/equipment/http"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
	pricingHttp "github.com/nekogravitycat/sports-booking/internal/pricing/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	CourtService     court.Service
	CoachService     coach.Service
	EquipmentService equipment.Service
	PricingService   pricing.Service
	BookingService   booking.Service

	// HealthCheck reports whether backing stores are reachable. Nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (Logger, Recovery, CORS, Tracing) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "traceparent"}
	r.Use(cors.New(config))

	r.Use(Tracing())

	r.GET("/health", health(cfg.HealthCheck))

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	courtHandler := courtHttp.NewHandler(cfg.CourtService)
	coachHandler := coachHttp.NewHandler(cfg.CoachService)
	equipmentHandler := equipmentHttp.NewHandler(cfg.EquipmentService)
	pricingHandler := pricingHttp.NewHandler(cfg.PricingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		courtHttp.RegisterRoutes(v1, courtHandler)
		coachHttp.RegisterRoutes(v1, coachHandler)
		equipmentHttp.RegisterRoutes(v1, equipmentHandler)
		pricingHttp.RegisterRoutes(v1, pricingHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}

func health(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
