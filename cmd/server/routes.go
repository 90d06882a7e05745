package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/config"
	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/handlers"
	"github.com/smarttransit/station-booking/internal/middleware"
	"github.com/smarttransit/station-booking/internal/services"
	"github.com/smarttransit/station-booking/internal/utils"
	"github.com/smarttransit/station-booking/pkg/jwt"
)

// newRouter wires repositories, services and handlers into the HTTP router.
// The returned limiter is swept periodically by the caller.
func newRouter(cfg *config.Config, db database.DB, logger *logrus.Logger) (*gin.Engine, *services.RateLimitService) {
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	rateLimitService := services.NewRateLimitService(services.RateLimitConfig{
		PerMinute: cfg.RateLimit.OrdersPerMinute,
		Burst:     cfg.RateLimit.Burst,
	})

	proxies, err := utils.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}

	userRepository := database.NewUserRepository(db)
	facilityRepository := database.NewFacilityRepository(db)
	busRepository := database.NewBusRepository(db)
	tripRepository := database.NewTripRepository(db)
	orderRepository := database.NewOrderRepository(db)

	authService := services.NewAuthService(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	orderService := services.NewOrderService(orderRepository, tripRepository, logger)

	busPages := handlers.Paginator{DefaultSize: cfg.Pagination.BusPageSize, MaxSize: cfg.Pagination.MaxPageSize, Proxies: proxies}
	orderPages := handlers.Paginator{DefaultSize: cfg.Pagination.OrderPageSize, MaxSize: cfg.Pagination.MaxPageSize, Proxies: proxies}

	authHandler := handlers.NewAuthHandler(authService, logger)
	facilityHandler := handlers.NewFacilityHandler(facilityRepository, logger)
	busHandler := handlers.NewBusHandler(busRepository, busPages, logger)
	tripHandler := handlers.NewTripHandler(tripRepository, busRepository, logger)
	orderHandler := handlers.NewOrderHandler(orderService, orderPages, logger)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger, proxies))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))

	requireAuth := middleware.AuthMiddleware(jwtService, logger)

	v1 := router.Group("/api/v1")
	{
		user := v1.Group("/user")
		{
			user.POST("/register", authHandler.Register)
			user.POST("/login", authHandler.Login)

			me := user.Group("/me", requireAuth)
			me.GET("", authHandler.GetProfile)
			me.PUT("", authHandler.UpdateProfile)
		}

		// Everyone signed in may read; only staff may write
		facilities := v1.Group("/facilities", requireAuth, middleware.AdminOrReadOnly())
		{
			facilities.GET("", facilityHandler.ListFacilities)
			facilities.POST("", facilityHandler.CreateFacility)
			facilities.GET("/:id", facilityHandler.GetFacility)
			facilities.PUT("/:id", facilityHandler.UpdateFacility)
			facilities.DELETE("/:id", facilityHandler.DeleteFacility)
		}

		buses := v1.Group("/buses", requireAuth, middleware.AdminOrReadOnly())
		{
			buses.GET("", busHandler.GetAllBuses)
			buses.POST("", busHandler.CreateBus)
			buses.GET("/:id", busHandler.GetBusByID)
			buses.PUT("/:id", busHandler.UpdateBus)
			buses.DELETE("/:id", busHandler.DeleteBus)
		}

		trips := v1.Group("/trips", requireAuth, middleware.AdminOrReadOnly())
		{
			trips.GET("", tripHandler.ListTrips)
			trips.POST("", tripHandler.CreateTrip)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.PUT("/:id", tripHandler.UpdateTrip)
			trips.DELETE("/:id", tripHandler.DeleteTrip)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			orders.GET("", orderHandler.ListOrders)
			orders.POST("", middleware.RateLimit(rateLimitService, proxies), orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.DELETE("/:id", orderHandler.CancelOrder)
		}
	}

	return router, rateLimitService
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
