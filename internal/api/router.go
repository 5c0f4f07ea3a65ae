package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/facility-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/facility-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	facilityHttp "github.com/nekogravitycat/facility-booking-backend/internal/facility/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/pricing"
	pricingHttp "github.com/nekogravitycat/facility-booking-backend/internal/pricing/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/suggestion"
	suggestionHttp "github.com/nekogravitycat/facility-booking-backend/internal/suggestion/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
	zoneHttp "github.com/nekogravitycat/facility-booking-backend/internal/zone/http"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	RateLimitRPS   float64
	RateLimitBurst int
	Location       *time.Location

	FacilityService     facility.Service
	ZoneService         zone.Service
	PricingService      pricing.Service
	AvailabilityService availability.Service
	SuggestionService   suggestion.Service
	LocalLookup         suggestion.BookingLookup
	BookingService      booking.Service
	JWTManager          *auth.JWTManager
}

func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	var out []string
	for _, o := range strings.Split(cfg.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if origins := allowedOrigins(cfg); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is a facility admin.
	adminMiddleware := auth.RequireAdmin()

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	facilityHandler := facilityHttp.NewHandler(cfg.FacilityService)
	zoneHandler := zoneHttp.NewHandler(cfg.ZoneService)
	pricingHandler := pricingHttp.NewHandler(cfg.PricingService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, loc)
	suggestionHandler := suggestionHttp.NewHandler(cfg.SuggestionService, cfg.LocalLookup)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1", RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		facilityHttp.RegisterRoutes(v1, facilityHandler, authMiddleware, adminMiddleware)
		zoneHttp.RegisterRoutes(v1, zoneHandler, authMiddleware, adminMiddleware)
		pricingHttp.RegisterRoutes(v1, pricingHandler, authMiddleware, adminMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler)
		suggestionHttp.RegisterRoutes(v1, suggestionHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}
