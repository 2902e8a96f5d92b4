package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dagdeps/component"
	"github.com/kbukum/dagdeps/depgraph"
	"github.com/kbukum/dagdeps/depview"
	"github.com/kbukum/dagdeps/errors"
	"github.com/kbukum/dagdeps/graphcache"
	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReader struct {
	snap *graphcache.Snapshot
	err  error
}

func (f *fakeReader) Get(context.Context) (*graphcache.Snapshot, error) {
	return f.snap, f.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.ApplyMiddleware("dagdeps", nil)
	return s
}

func viewConfig() depview.Config {
	cfg := depview.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func builtSnapshot() *graphcache.Snapshot {
	g := depgraph.Build([]workflow.Definition{
		{ID: "A", Tasks: []workflow.Task{workflow.NewTriggerTask("t1", "B")}},
		{ID: "B"},
	})
	return graphcache.NewSnapshot(g, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func TestDependencies(t *testing.T) {
	unavailable := errors.SourceUnavailable("dir", fmt.Errorf("permission denied"))

	tests := []struct {
		name       string
		reader     *fakeReader
		target     string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "fresh graph",
			reader:     &fakeReader{snap: builtSnapshot()},
			target:     DependenciesPath,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var v depview.View
				if err := json.Unmarshal(body, &v); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if len(v.Nodes) != 3 || len(v.Edges) != 2 {
					t.Errorf("nodes=%d edges=%d", len(v.Nodes), len(v.Edges))
				}
				if v.Stale || v.Arrange != "LR" || v.Width != "100%" || v.Height != "800" {
					t.Errorf("unexpected view header %+v", v)
				}
			},
		},
		{
			name:       "query overrides layout",
			reader:     &fakeReader{snap: builtSnapshot()},
			target:     DependenciesPath + "?orientation=TB&width=1200px",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var v depview.View
				_ = json.Unmarshal(body, &v)
				if v.Arrange != "TB" || v.Width != "1200px" || v.Height != "800" {
					t.Errorf("layout = %s %s %s", v.Arrange, v.Width, v.Height)
				}
			},
		},
		{
			name:       "invalid orientation",
			reader:     &fakeReader{snap: builtSnapshot()},
			target:     DependenciesPath + "?orientation=sideways",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				if !strings.Contains(string(body), string(errors.ErrCodeInvalidInput)) {
					t.Errorf("body = %s", body)
				}
			},
		},
		{
			name:       "stale graph after failed refresh",
			reader:     &fakeReader{snap: builtSnapshot(), err: unavailable},
			target:     DependenciesPath,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var v depview.View
				_ = json.Unmarshal(body, &v)
				if !v.Stale || v.Warning == "" || len(v.Nodes) != 3 {
					t.Errorf("stale view = %+v", v)
				}
			},
		},
		{
			name:       "never built",
			reader:     &fakeReader{snap: &graphcache.Snapshot{Graph: depgraph.Empty()}, err: unavailable},
			target:     DependenciesPath,
			wantStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, body []byte) {
				var resp errors.ErrorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.Error.Code != errors.ErrCodeSourceUnavailable || !resp.Error.Retryable {
					t.Errorf("error body = %+v", resp.Error)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.RegisterDependencies(tt.reader, viewConfig())

			rr := get(t, s.Handler(), tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if rr.Header().Get("X-Request-Id") == "" {
				t.Error("request id middleware not applied")
			}
			tt.check(t, rr.Body.Bytes())
		})
	}
}

type flakySource struct {
	*workflow.MemorySource
	fail bool
}

func (f *flakySource) ListWorkflows(ctx context.Context) ([]workflow.Definition, error) {
	if f.fail {
		return nil, fmt.Errorf("definition store offline")
	}
	return f.MemorySource.ListWorkflows(ctx)
}

func TestDependenciesWithCache(t *testing.T) {
	src := &flakySource{MemorySource: workflow.NewMemorySource(
		workflow.Definition{ID: "C", ImplicitDependencies: []string{"D"}},
	)}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := graphcache.New(src, 300*time.Second,
		graphcache.WithClock(func() time.Time { return now }),
		graphcache.WithLogger(logger.Nop()))

	s := newTestServer(t)
	s.RegisterDependencies(cache, viewConfig())

	rr := get(t, s.Handler(), DependenciesPath)
	var v depview.View
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// C, implicit:C#D, D
	if len(v.Nodes) != 3 || len(v.Edges) != 2 || v.Stale {
		t.Fatalf("first view = %+v", v)
	}

	src.fail = true
	now = now.Add(300 * time.Second)
	rr = get(t, s.Handler(), DependenciesPath)
	v = depview.View{}
	_ = json.Unmarshal(rr.Body.Bytes(), &v)
	if rr.Code != http.StatusOK || !v.Stale || len(v.Nodes) != 3 {
		t.Errorf("expected stale view, got %d %+v", rr.Code, v)
	}
}

func TestDefaultEndpoints(t *testing.T) {
	checker := func(context.Context) []component.Health {
		return []component.Health{
			{Name: "graph-cache", Status: component.StatusDegraded},
			{Name: "workflow-source", Status: component.StatusHealthy},
		}
	}
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("dagdeps", checker)
	h := s.Handler()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/health", http.StatusOK, `"status":"degraded"`},
		{"/ready", http.StatusOK, `"status":"ready"`},
		{"/alive", http.StatusOK, `"status":"alive"`},
		{"/alive", http.StatusOK, `"uptime_seconds":`},
		{"/info", http.StatusOK, `"service":"dagdeps"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(t, h, tt.path)
			if rr.Code != tt.wantStatus || !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("%s: %d %s", tt.path, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHealthUnhealthy(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("dagdeps", func(context.Context) []component.Health {
		return []component.Health{{Name: "graph-cache", Status: component.StatusUnhealthy}}
	})
	for _, path := range []string{"/health", "/ready"} {
		if rr := get(t, s.Handler(), path); rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d", path, rr.Code)
		}
	}
}

func TestComponent(t *testing.T) {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.Nop())
	s.RegisterDefaultEndpoints("dagdeps", nil)
	s.RegisterDependencies(&fakeReader{snap: builtSnapshot()}, viewConfig())
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop(context.Background())

	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + DependenciesPath)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	routes := c.Routes()
	if len(routes) != 5 || routes[0].Path != DependenciesPath {
		t.Fatalf("routes = %+v", routes)
	}
	if !strings.HasSuffix(routes[len(routes)-1].Handler, "⚙️") {
		t.Errorf("system route not labelled: %+v", routes[len(routes)-1])
	}
	if d := c.Describe(); d.Type != "server" || !strings.Contains(d.Details, "h2c") {
		t.Errorf("describe = %+v", d)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/dagdeps/server.Dependencies.func1":        "dependencies",
		"github.com/kbukum/dagdeps/server/endpoint.Health.func1":     "health",
		"github.com/acme/svc/internal/api.(*GraphHandler).Refresh-fm": "GraphHandler.Refresh",
	}
	for in, want := range tests {
		if got := formatHandlerName(in); got != want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxBodySize != "1MB" || cfg.RateLimit.Burst == 0 {
		t.Errorf("defaults = %+v", cfg)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"negative timeout", func(c *Config) { c.ReadTimeout = -1 }},
		{"bad body size", func(c *Config) { c.MaxBodySize = "lots" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
