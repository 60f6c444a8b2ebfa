package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mealbridge/marketplace/docs"
	"github.com/mealbridge/marketplace/internal/api/handler"
	"github.com/mealbridge/marketplace/internal/api/middleware"
	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
	"github.com/mealbridge/marketplace/internal/infrastructure/http/handlers"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	JWTSecret string
	Log       zerolog.Logger

	Auth        ports.AuthService
	Sessions    ports.SessionService
	Languages   ports.LanguageService
	Marketplace ports.Marketplace
	Meals       ports.MealReader
	Restaurants ports.RestaurantCatalog
	Stats       ports.StatsService
	Health      *handlers.HealthDependenciesHandler

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.Health == nil {
		d.Health = handlers.NewHealthDependenciesHandler(nil, nil, nil)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "marketplace",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	sessionHandler := handler.NewSessionHandler(d.Sessions, d.Languages)
	mealHandler := handler.NewMealHandler(d.Meals, d.Marketplace)
	restaurantHandler := handler.NewRestaurantHandler(d.Restaurants)
	adminHandler := handler.NewAdminHandler(d.Stats)
	healthHandler := handlers.NewHealthHandler()

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", d.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))

	session := v1.Group("/session")
	session.GET("", sessionHandler.Get)
	session.PUT("/role", sessionHandler.SetRole)
	session.POST("/logout", sessionHandler.Logout)
	session.GET("/language", sessionHandler.GetLanguage)
	session.PUT("/language", sessionHandler.SetLanguage)

	meals := v1.Group("/meals")
	meals.GET("", mealHandler.List)
	meals.GET("/donated", mealHandler.Donated)
	meals.GET("/reserved", mealHandler.Reserved)
	meals.POST("/refresh", mealHandler.Refresh, middleware.RBAC(domain.RoleAdmin))
	meals.GET("/:id", mealHandler.Get)
	meals.POST("/:id/reserve", mealHandler.Reserve, middleware.RBAC(domain.RoleRecipient, domain.RoleDonor))
	meals.POST("/:id/complete", mealHandler.Complete, middleware.RBAC(domain.RoleRecipient, domain.RoleDonor))

	v1.POST("/donations", mealHandler.Donate, middleware.RBAC(domain.RoleDonor, domain.RoleRestaurant))

	restaurants := v1.Group("/restaurants")
	restaurants.GET("", restaurantHandler.List)
	restaurants.GET("/selected", restaurantHandler.Selected)
	restaurants.POST("/refresh", restaurantHandler.Refresh, middleware.RBAC(domain.RoleAdmin))
	restaurants.GET("/:id", restaurantHandler.Get)

	manage := middleware.RBAC(domain.RoleRestaurant, domain.RoleAdmin)
	restaurants.POST("/:id/menu", restaurantHandler.AddMenuItem, manage)
	restaurants.PUT("/:id/menu/:item_id", restaurantHandler.UpdateMenuItem, manage)
	restaurants.DELETE("/:id/menu/:item_id", restaurantHandler.RemoveMenuItem, manage)
	restaurants.POST("/:id/campaign/toggle", restaurantHandler.ToggleCampaign, manage)

	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/stats", adminHandler.Stats)

	return e
}
