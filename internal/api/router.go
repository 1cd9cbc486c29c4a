package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hackgods/brokerage-crm/internal/appointment"
)

type RouterConfig struct {
	Service  *appointment.Service
	Postgres HealthCheck
	Redis    HealthCheck
	Logger   *zap.Logger
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoverMiddleware(logger))

	// Health endpoints
	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Calendar views
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/day", dayViewHandler(cfg.Service))
		r.Get("/week", weekViewHandler(cfg.Service))
		r.Get("/month", monthViewHandler(cfg.Service))
		r.Get("/slots", timeSlotsHandler(cfg.Service))
	})

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/move", moveAppointmentHandler(cfg.Service))

	// PER simulator
	r.Post("/per/simulate", simulateHandler())
	r.Post("/per/report", reportHandler(logger))

	return r
}
