package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ev-station-booking/internal/config"
	"github.com/iliyamo/ev-station-booking/internal/handler"
	"github.com/iliyamo/ev-station-booking/internal/middleware"
	"github.com/iliyamo/ev-station-booking/internal/model"
)

// Handlers bundles everything RegisterRoutes needs so main stays a
// simple wiring exercise.
type Handlers struct {
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Stations     *handler.StationHandler
	Schedules    *handler.ScheduleHandler
	Scan         *handler.ScanHandler
}

// RegisterRoutes wires the full HTTP surface.  Unauthenticated routes
// are the health check, registration and login.  Everything else sits
// behind JWT auth plus a role gate:
//
//	OWNER      owns reservations (create, modify, cancel, list own)
//	BACKOFFICE runs stations, schedules and reservation decisions
//	OPERATOR   works the charging bay (scan and finalize tokens)
//
// Read access to reservations is shared by OWNER and BACKOFFICE; the
// handler further restricts OWNER to its own records.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Public auth endpoints are rate limited per IP so credential
	// stuffing burns the bucket before it burns bcrypt.
	pub := e.Group("/v1/auth", middleware.RateLimit(rlCfg, rdb))
	pub.POST("/register", h.Auth.Register)
	pub.POST("/login", h.Auth.Login)

	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(rlCfg, rdb))

	api.GET("/me", h.Auth.Me)

	// Station directory is readable by any authenticated role.
	api.GET("/stations", h.Stations.List)
	api.GET("/stations/:id", h.Stations.Get)
	api.GET("/stations/:id/schedule", h.Schedules.Get)

	owner := api.Group("", middleware.RequireRole(model.RoleOwner))
	owner.POST("/reservations", h.Reservations.Create)
	owner.PUT("/reservations/:id", h.Reservations.Update)
	owner.GET("/reservations/mine", h.Reservations.ListMine)

	// OWNER may only touch its own reservation; the handler checks.
	// Cancellation is shared: backoffice cancels on an owner's behalf.
	shared := api.Group("", middleware.RequireRole(model.RoleOwner, model.RoleBackoffice))
	shared.GET("/reservations/:id", h.Reservations.Get)
	shared.DELETE("/reservations/:id", h.Reservations.Cancel)

	back := api.Group("", middleware.RequireRole(model.RoleBackoffice))
	back.POST("/reservations/:id/approve", h.Reservations.Approve)
	back.POST("/reservations/:id/complete", h.Reservations.Complete)
	back.POST("/stations", h.Stations.Create)
	back.PUT("/stations/:id", h.Stations.Update)
	back.POST("/stations/:id/deactivate", h.Stations.Deactivate)
	back.PUT("/stations/:id/schedule", h.Schedules.Upsert)

	op := api.Group("", middleware.RequireRole(model.RoleOperator, model.RoleBackoffice))
	op.POST("/scan", h.Scan.Scan)
	op.POST("/reservations/:id/finalize", h.Scan.Finalize)
}
