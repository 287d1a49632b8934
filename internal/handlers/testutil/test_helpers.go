package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/roomrental/internal/api"
	"github.com/charlesng35/roomrental/internal/app"
	"github.com/charlesng35/roomrental/internal/handlers"
	"github.com/charlesng35/roomrental/internal/middleware"
	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/realtime"
	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/internal/store/memory"
	"github.com/charlesng35/roomrental/pkg/response"
)

// BaseTime is the instant every test environment starts at.
var BaseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Env encapsulates a fully-wired API instance backed by the in-memory store for handler tests.
type Env struct {
	T        *testing.T
	Store    *memory.Store
	Services *services.Registry
	Hub      *realtime.Hub
	Clock    *Clock
	Config   *app.Config
	Router   *gin.Engine
}

// EnvOption adjusts the configuration before the router is built.
type EnvOption func(*app.Config)

// WithRateLimit caps POST /api/messages per client.
func WithRateLimit(requests int, window time.Duration) EnvOption {
	return func(cfg *app.Config) {
		cfg.Server.RateLimit = app.RateLimitConfig{Requests: requests, Window: window}
	}
}

// NewEnv provisions a fresh handler test environment.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	clock := &Clock{now: BaseTime}
	st := memory.New(memory.WithNow(clock.Now))
	hub := realtime.NewHub()

	cfg := &app.Config{
		Server: app.ServerConfig{Port: 8000},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
		Leases: app.LeaseConfig{
			DefaultRenewalNoticeDays: 30,
			ExpiringSoonDays:         30,
			Actor:                    "admin",
		},
		Realtime: app.RealtimeConfig{Enabled: true},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	registry, err := services.NewRegistry(st, services.RegistryConfig{
		Now:                      clock.Now,
		Events:                   hub,
		Actor:                    cfg.Leases.Actor,
		DefaultRenewalNoticeDays: cfg.Leases.DefaultRenewalNoticeDays,
		ExpiringSoonDays:         cfg.Leases.ExpiringSoonDays,
	})
	require.NoError(t, err)

	router, err := api.NewRouter(api.Dependencies{
		Config:       cfg,
		Services:     registry,
		Hub:          hub,
		RateStore:    middleware.NewMemoryRateStore(),
		HealthChecks: map[string]handlers.HealthCheck{"store": st.Ping},
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		Store:    st,
		Services: registry,
		Hub:      hub,
		Clock:    clock,
		Config:   cfg,
		Router:   router,
	}
}

// AddProperty inserts a property directly into the store.
func (e *Env) AddProperty(id, name string) *models.Property {
	e.T.Helper()
	property := &models.Property{BaseModel: models.BaseModel{ID: id}, Name: name, Address: "1 Test Street"}
	require.NoError(e.T, e.Store.Properties().Create(context.Background(), property))
	return property
}

// AddRoom inserts an available room directly into the store.
func (e *Env) AddRoom(id, propertyID string, price float64) *models.Room {
	e.T.Helper()
	room := &models.Room{
		BaseModel:    models.BaseModel{ID: id},
		PropertyID:   propertyID,
		Name:         "Room " + id,
		Price:        price,
		MaxOccupants: 1,
		IsAvailable:  true,
	}
	require.NoError(e.T, e.Store.Rooms().Create(context.Background(), room))
	return room
}

// Room reads a room back from the store.
func (e *Env) Room(id string) *models.Room {
	e.T.Helper()
	room, err := e.Store.Rooms().Get(context.Background(), id)
	require.NoError(e.T, err)
	return room
}

// Lease reads a lease back from the store.
func (e *Env) Lease(id string) *models.Lease {
	e.T.Helper()
	lease, err := e.Store.Leases().Get(context.Background(), id)
	require.NoError(e.T, err)
	return lease
}

// Request executes an HTTP request against the test router, applying JSON encoding automatically.
func (e *Env) Request(method, path string, body any) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the response body into dest.
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var dest T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dest), w.Body.String())
	return dest
}

// RequireError asserts an error response with the given status and message.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := Decode[response.ErrorBody](t, w)
	require.Equal(t, message, body.Error)
}
