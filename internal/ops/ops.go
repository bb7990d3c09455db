// Package ops exposes the operational HTTP surface: a health endpoint and
// Prometheus metrics. It is a leaf module; the chat engine finds the
// Metrics instance through the service registry.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/cheekylabs/cheeky/internal/core"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module is the ops HTTP module.
type Module struct {
	config    Config
	logger    *slog.Logger
	server    *http.Server
	registry  *prometheus.Registry
	metrics   *Metrics
	startedAt time.Time
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "ops.http",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("ops: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.metrics = NewMetrics(m.registry, "cheeky")

	ctx.RegisterService("ops.metrics", m.metrics)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", m.config.Bind); err != nil {
		return fmt.Errorf("ops: invalid bind address %q: %w", m.config.Bind, err)
	}
	return nil
}

// Start implements core.Starter.
func (m *Module) Start() error {
	m.startedAt = time.Now()

	m.server = &http.Server{
		Addr:         m.config.Bind,
		Handler:      m.buildRouter(),
		ReadTimeout:  m.config.ReadTimeout,
		WriteTimeout: m.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", m.config.Bind)
	if err != nil {
		return fmt.Errorf("ops: listen %s: %w", m.config.Bind, err)
	}

	go func() {
		m.logger.Info("ops endpoint listening", "addr", m.config.Bind)
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("ops serve error", "error", err)
		}
	}()

	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, m.config.ShutdownTimeout)
	defer cancel()

	m.logger.Info("ops endpoint shutting down")
	return m.server.Shutdown(shutdownCtx)
}

// Metrics returns the module's instrument set.
func (m *Module) Metrics() *Metrics {
	return m.metrics
}

// buildRouter constructs the chi mux with all routes wired.
func (m *Module) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", m.handleHealth())
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (m *Module) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Uptime: time.Since(m.startedAt).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
