package app

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/facility-booking-backend/internal/api"
	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/availability"
	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/holiday"
	"github.com/nekogravitycat/facility-booking-backend/internal/pricing"
	"github.com/nekogravitycat/facility-booking-backend/internal/suggestion"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DBPool         *pgxpool.Pool
	Redis          *redis.Client // nil disables the heatmap cache
	JWTSecret      string
	JWTTTL         time.Duration
	Location       *time.Location
	ZoneOptions    zone.Options
	Maintenance    []time.Time
	RateLimitRPS   float64
	RateLimitBurst int

	BookingServiceURL     string // empty reads bookings from DBPool
	BookingServiceTimeout time.Duration
	BookingServiceRPS     float64
	HeatmapCacheTTL       time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	calendar := holiday.NewCalendar(loc)
	for _, d := range cfg.Maintenance {
		calendar.AddMaintenance(d, "")
	}

	// Facility Module
	facRepo := facility.NewPgxRepository(cfg.DBPool)
	facService := facility.NewService(facRepo)

	// Booking Repository (snapshot source for the resolver)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Zone Module (writes flush the heatmap cache of the engine built below)
	var engine *suggestion.Engine
	zoneChanged := zone.ChangeNotifierFunc(func(ctx context.Context, facilityID string) {
		engine.ZonesChanged(ctx, facilityID)
	})
	zoneRepo := zone.NewPgxRepository(cfg.DBPool)
	zoneService := zone.NewService(zoneRepo, bookingRepo, facService, cfg.ZoneOptions, zoneChanged)

	// Pricing Module
	pricingRepo := pricing.NewPgxRepository(cfg.DBPool)
	pricingService := pricing.NewService(pricingRepo, facService, zoneService, loc)

	// Availability Module
	availabilityService := availability.NewService(facService, zoneService, calendar)

	// Suggestion Module
	localLookup := suggestion.NewLocalLookup(zoneService, loc)
	var lookup suggestion.BookingLookup = localLookup
	if cfg.BookingServiceURL != "" {
		log.Printf("reading bookings from %s", cfg.BookingServiceURL)
		lookup = suggestion.NewHTTPLookup(cfg.BookingServiceURL, cfg.BookingServiceTimeout, cfg.BookingServiceRPS)
	}
	cache := suggestion.NewRedisDayCache(cfg.Redis, cfg.HeatmapCacheTTL)
	log.Printf("heatmap cache: %s", cache)
	engine = suggestion.NewEngine(lookup, cache, zoneService, loc)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, zoneService, pricingService, calendar, engine, loc)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
		Location:            loc,
		FacilityService:     facService,
		ZoneService:         zoneService,
		PricingService:      pricingService,
		AvailabilityService: availabilityService,
		SuggestionService:   engine,
		LocalLookup:         localLookup,
		BookingService:      bookingService,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
