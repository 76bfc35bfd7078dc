// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"outletdesk/docs"
	"outletdesk/internal/analytics"
	"outletdesk/internal/auth"
	"outletdesk/internal/bookings"
	"outletdesk/internal/hotels"
	"outletdesk/internal/notifications"
	"outletdesk/internal/outlets"
	"outletdesk/internal/restaurants"
	"outletdesk/internal/shared/config"
	"outletdesk/internal/shared/database"
	"outletdesk/internal/shared/middleware"
	"outletdesk/internal/travel"
	"outletdesk/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	cache     cache.Service
	publisher notifications.Publisher

	outletService outlets.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &Router{
		config:    cfg,
		db:        db,
		cache:     cache.NewService(db.Redis),
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.setupDocsRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthWithConfig(r.config))
		r.setupOutletRoutes(protected)

		// every outlet-scoped route resolves :outletID and checks membership first
		outlet := protected.Group("/outlets/:outletID")
		outlet.Use(outlets.RequireOutletAccess(r.outletService))
		{
			r.setupHotelRoutes(outlet.Group("/hotel", outlets.RequireOutletType(outlets.OutletTypeHotel)))
			r.setupRestaurantRoutes(outlet.Group("/restaurant", outlets.RequireOutletType(outlets.OutletTypeRestaurant)))
			r.setupTravelRoutes(outlet.Group("/travel", outlets.RequireOutletType(outlets.OutletTypeTravel)))
			r.setupAnalyticsRoutes(outlet)
		}
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "outletdesk-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "outletdesk-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET(r.config.GetAPIBasePath()+"/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"app_version": r.config.AppVersion,
			"timestamp":   time.Now(),
		})
	})

	if r.config.Metrics.Enabled {
		engine.GET(r.config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
}

func (r *Router) setupDocsRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	docs.SwaggerInfo.Version = r.config.AppVersion
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	auth.NewRouter(authController, r.config).SetupRoutes(rg)
}

// setupOutletRoutes configures outlet selection and client state snapshots
func (r *Router) setupOutletRoutes(rg *gin.RouterGroup) {
	outletRepo := outlets.NewRepository(r.db.PostgreSQL)
	r.outletService = outlets.NewService(outletRepo, r.cache, r.config.AppVersion, r.config.Redis.SessionTTL)
	outlets.SetupOutletRoutes(rg, outlets.NewController(r.outletService))
}

// setupHotelRoutes wires the catalogue and the booking desk, which share the room repository
func (r *Router) setupHotelRoutes(hotel *gin.RouterGroup) {
	hotelRepo := hotels.NewRepository(r.db.PostgreSQL)
	bookingRepo := bookings.NewRepository(r.db.PostgreSQL)

	var locker bookings.RoomLocker = bookings.NewNoopRoomLocker()
	if r.db.Redis != nil {
		locker = bookings.NewRedisRoomLocker(r.db.Redis, r.config.Redis.RoomLockTTL)
	}

	hotelService := hotels.NewService(hotelRepo, bookingRepo, r.cache)
	bookingService := bookings.NewService(bookingRepo, hotelRepo, locker, r.cache, r.publisher, bookings.ServiceConfig{
		Location:        r.config.Location(),
		AvailabilityTTL: r.config.Redis.AvailabilityTTL,
	})

	hotels.SetupHotelRoutes(hotel, hotels.NewController(hotelService))
	bookings.SetupBookingRoutes(hotel, bookings.NewController(bookingService))
}

func (r *Router) setupRestaurantRoutes(restaurant *gin.RouterGroup) {
	repo := restaurants.NewRepository(r.db.PostgreSQL)
	service := restaurants.NewService(repo, r.cache, r.publisher)
	restaurants.SetupRestaurantRoutes(restaurant, restaurants.NewController(service))
}

func (r *Router) setupTravelRoutes(travelGroup *gin.RouterGroup) {
	repo := travel.NewRepository(r.db.PostgreSQL)
	service := travel.NewService(repo, r.cache)
	travel.SetupTravelRoutes(travelGroup, travel.NewController(service))
}

func (r *Router) setupAnalyticsRoutes(outlet *gin.RouterGroup) {
	repo := analytics.NewRepository(r.db.PostgreSQL)
	service := analytics.NewService(repo, r.cache, r.config.Location())
	analytics.SetupAnalyticsRoutes(outlet, analytics.NewController(service))
}
