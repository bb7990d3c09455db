package ops

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cheekylabs/cheeky/internal/core"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()

	m := &Module{}
	m.config.defaults()
	m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := core.NewAppContext(m.logger, t.TempDir())
	if err := m.Provision(ctx); err != nil {
		t.Fatalf("provision: %v", err)
	}
	m.startedAt = time.Now()
	return m
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	srv := httptest.NewServer(m.buildRouter())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := newTestModule(t)
	m.metrics.InboundMessages.WithLabelValues("telegram").Inc()
	m.metrics.RecordCacheLookup(true)

	srv := httptest.NewServer(m.buildRouter())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := string(raw)

	for _, want := range []string{
		`cheeky_inbound_messages_total{channel="telegram"} 1`,
		`cheeky_response_cache_lookups_total{outcome="hit"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestValidateBindAddress(t *testing.T) {
	t.Parallel()

	m := &Module{config: Config{Bind: "not a bind address"}}
	m.config.defaults()
	if err := m.Validate(); err == nil {
		t.Error("expected an error for an invalid bind address")
	}
}
