package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avelys/salonops/internal/config"
	"github.com/avelys/salonops/internal/handler"
	"github.com/avelys/salonops/internal/middleware"
	"github.com/avelys/salonops/internal/model"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth      *handler.AuthHandler
	Bookings  *handler.BookingHandler
	Payments  *handler.PaymentHandler
	Customers *handler.CustomerHandler
	Reports   *handler.ReportHandler
	JWTSecret string
	Redis     *redis.Client // nil disables rate limiting and caching
}

// Register wires every route. Unauthenticated endpoints are the health
// check and /v1/auth; everything else requires a valid access token and
// a staff or admin role.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// One shared token bucket covers the whole /v1 surface, keyed per
	// the RATE_LIMIT_KEY_STRATEGY env setting.
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)

	ag := e.Group("/v1/auth", limit)
	ag.POST("/register", d.Auth.Register)
	ag.POST("/login", d.Auth.Login)
	ag.POST("/refresh", d.Auth.Refresh)
	ag.POST("/logout", d.Auth.Logout)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(d.JWTSecret))
	v1.Use(limit) // after JWTAuth so user-keyed strategies see user_id
	v1.Use(middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	v1.GET("/me", d.Auth.Me)

	v1.POST("/bookings", d.Bookings.Create)
	v1.GET("/bookings", d.Bookings.List)
	v1.GET("/bookings/:id", d.Bookings.Get)
	v1.PATCH("/bookings/:id/status", d.Bookings.UpdateStatus)
	v1.DELETE("/bookings/:id", d.Bookings.Delete)

	v1.POST("/payments", d.Payments.Create)
	v1.DELETE("/payments/:id", d.Payments.Delete)
	v1.GET("/bookings/:id/payments", d.Payments.ListForBooking)

	v1.POST("/customers", d.Customers.Create)
	v1.GET("/customers", d.Customers.List)
	v1.GET("/customers/:id", d.Customers.Get)

	// Daily summaries are expensive to compute and safe to serve a little
	// stale, so they sit behind the response cache.
	reportCache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	v1.GET("/reports/daily", d.Reports.Summary, reportCache)
}
