package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/app"
	"github.com/charlesng35/roomrental/internal/handlers"
	"github.com/charlesng35/roomrental/internal/middleware"
	"github.com/charlesng35/roomrental/internal/realtime"
	"github.com/charlesng35/roomrental/internal/services"
)

// Dependencies are the collaborators the router mounts handlers on.
type Dependencies struct {
	Config   *app.Config
	Services *services.Registry
	// Hub is nil when realtime streaming is disabled.
	Hub          *realtime.Hub
	RateStore    middleware.RateStore
	HealthChecks map[string]handlers.HealthCheck
}

// NewRouter builds the Gin engine, wires middleware and registers every route under /api.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Services == nil {
		return nil, fmt.Errorf("service registry must be provided")
	}
	cfg := deps.Config
	svc := deps.Services

	rateStore := deps.RateStore
	if rateStore == nil {
		rateStore = middleware.NewMemoryRateStore()
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if cfg.Monitoring.Prometheus.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	registerHealthRoutes(r, cfg, deps.HealthChecks)
	registerMetricsRoutes(r, cfg)

	api := r.Group("/api")

	registerLeaseRoutes(api, handlers.NewLeaseHandler(svc.Leases, cfg.Leases.ExpiringSoonDays))
	registerRoomRoutes(api, handlers.NewRoomHandler(svc.Rooms))
	registerPropertyRoutes(api, handlers.NewPropertyHandler(svc.Properties))
	registerMessageRoutes(api, handlers.NewMessageHandler(svc.Messages),
		middleware.RateLimit(rateStore, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))
	registerNotificationRoutes(api, handlers.NewNotificationHandler(svc.Notifications), handlers.NewRealtimeHandler(deps.Hub))
	registerDashboardRoutes(api, handlers.NewDashboardHandler(svc.Dashboard))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
