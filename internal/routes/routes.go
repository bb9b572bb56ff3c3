package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	"github.com/BruksfildServices01/slot-scheduler/internal/config"
	domainAvailability "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	domainBooking "github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/handlers"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	infraRepo "github.com/BruksfildServices01/slot-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/slot-scheduler/internal/middleware"
	ucAvailability "github.com/BruksfildServices01/slot-scheduler/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/slot-scheduler/internal/usecase/booking"
)

// Calendar is the one external calendar both read and written by the API.
type Calendar interface {
	domainAvailability.BusySource
	domainBooking.EventWriter
}

// Deps are the process wide singletons built in main. DB and Redis are nil
// when not configured.
type Deps struct {
	Calendar Calendar
	Notifier domainBooking.Notifier
	Audit    *audit.Dispatcher
	DB       *gorm.DB
	Redis    *redis.Client
	Logger   *zap.Logger
	Now      domainAvailability.Clock
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {

	if deps.Now == nil {
		deps.Now = time.Now
	}

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	var (
		resourceID = cfg.GoogleCalendarID
		loc        = cfg.Location()
		rules      = cfg.Rules()
	)
	if resourceID == "" {
		resourceID = "primary"
	}

	limiter := func(prefix string) gin.HandlerFunc {
		if deps.Redis != nil {
			return middleware.NewRedisRateLimiter(deps.Redis, cfg.RateLimitPerMin, time.Minute, prefix, deps.Logger).Middleware()
		}
		return middleware.NewIPRateLimiter(cfg.RateLimitPerMin, deps.Logger).Middleware()
	}

	var auditRepo handlers.AuditLogLister
	if deps.DB != nil {
		auditRepo = infraRepo.NewAuditLogGormRepository(deps.DB)
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	calculateUC := ucAvailability.NewCalculateAvailability(
		deps.Calendar,
		loc,
		deps.Now,
		cfg.FetchConcurrency,
		deps.Logger,
	)

	daySlotsUC := ucAvailability.NewGetDaySlots(deps.Calendar, loc, deps.Now, deps.Logger)

	checkSlotUC := ucAvailability.NewCheckSlot(deps.Calendar, rules.BufferTime, deps.Logger)

	createBookingUC := ucBooking.NewCreateBooking(
		checkSlotUC,
		deps.Calendar,
		deps.Notifier,
		deps.Audit,
		deps.Logger,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(
		calculateUC,
		daySlotsUC,
		checkSlotUC,
		resourceID,
		rules,
		loc,
		deps.Now,
		cfg.AvailabilityRangeDays,
	)

	bookingHandler := handlers.NewBookingHandler(createBookingUC, resourceID, loc, rules.AppointmentDuration)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditRepo, loc, deps.Logger)
	healthHandler := handlers.NewHealthHandler(cfg.CalendarSource)

	// ======================================================
	// 🌐 ROUTES
	// ======================================================
	r.GET("/health", healthHandler.Get)
	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "not_found", "Route not found.")
	})

	api := r.Group("/api")
	{
		api.GET("/availability", availabilityHandler.Get)
		api.GET("/availability/check", availabilityHandler.Check)
		api.POST("/booking", limiter("rl:booking"), bookingHandler.Create)

		// ------------------------------
		// 🔐 ADMIN
		// ------------------------------
		if cfg.AdminEnabled() {
			authHandler := handlers.NewAuthHandler(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret)
			api.POST("/auth/login", limiter("rl:login"), authHandler.Login)

			admin := api.Group("/admin")
			admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
			{
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
