package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/dagdeps/component"
	"github.com/kbukum/dagdeps/config"
	"github.com/kbukum/dagdeps/logger"
)

type testConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
}

type stubComponent struct {
	name     string
	status   component.HealthStatus
	startErr error
	stopErr  error
	events   *[]string
}

func (s *stubComponent) Name() string { return s.name }
func (s *stubComponent) Start(ctx context.Context) error {
	if s.events != nil {
		*s.events = append(*s.events, "start:"+s.name)
	}
	return s.startErr
}
func (s *stubComponent) Stop(ctx context.Context) error {
	if s.events != nil {
		*s.events = append(*s.events, "stop:"+s.name)
	}
	return s.stopErr
}
func (s *stubComponent) Health(ctx context.Context) component.Health {
	status := s.status
	if status == "" {
		status = component.StatusHealthy
	}
	return component.Health{Name: s.name, Status: status}
}

type routedComponent struct {
	stubComponent
}

func (r *routedComponent) Describe() component.Description {
	return component.Description{Name: "HTTP Server", Type: "server", Details: "h2c", Port: 8080}
}

func (r *routedComponent) Routes() []component.Route {
	return []component.Route{{Method: "GET", Path: "/dag-dependencies", Handler: "DagDependencies"}}
}

func newTestApp(t *testing.T, opts ...Option) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "dagdeps", Version: "test"}}
	opts = append([]Option{WithLogger(logger.Nop()), WithSummaryOutput(&out)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, &out
}

func TestNewAppAppliesDefaults(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "dagdeps" || app.Version != "test" {
		t.Errorf("unexpected identity %q %q", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("defaults not applied: %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("graceful timeout = %s", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, _ := newTestApp(t, WithGracefulTimeout(time.Second))
	if app.gracefulTimeout != time.Second {
		t.Errorf("graceful timeout = %s", app.gracefulTimeout)
	}
}

func TestRunTaskLifecycle(t *testing.T) {
	app, out := newTestApp(t)
	var events []string
	app.RegisterComponent(&stubComponent{name: "workflow-source", events: &events})
	app.RegisterComponent(&stubComponent{name: "graph-cache", events: &events})
	app.OnStart(func(ctx context.Context) error { events = append(events, "onStart"); return nil })
	app.OnReady(func(ctx context.Context) error { events = append(events, "onReady"); return nil })
	app.OnStop(func(ctx context.Context) error { events = append(events, "onStop"); return nil })

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{
		"start:workflow-source", "start:graph-cache", "onStart", "onReady",
		"task", "onStop", "stop:graph-cache", "stop:workflow-source",
	}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Errorf("events = %v\nwant     %v", events, want)
	}
	if !strings.Contains(out.String(), "dagdeps test started") {
		t.Errorf("summary missing header: %q", out.String())
	}
}

func TestRunTaskErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(app *App[*testConfig])
		task    error
		wantErr string
	}{
		{
			name:    "task error",
			task:    fmt.Errorf("render failed"),
			wantErr: "render failed",
		},
		{
			name: "component start error",
			setup: func(app *App[*testConfig]) {
				app.RegisterComponent(&stubComponent{name: "workflow-source", startErr: fmt.Errorf("no dirs")})
			},
			wantErr: "no dirs",
		},
		{
			name: "start hook error",
			setup: func(app *App[*testConfig]) {
				app.OnStart(func(ctx context.Context) error { return fmt.Errorf("telemetry") })
			},
			wantErr: "onStart hook failed",
		},
		{
			name: "ready hook error",
			setup: func(app *App[*testConfig]) {
				app.OnReady(func(ctx context.Context) error { return fmt.Errorf("late") })
			},
			wantErr: "onReady hook failed",
		},
		{
			name: "stop error joined with task error",
			setup: func(app *App[*testConfig]) {
				app.RegisterComponent(&stubComponent{name: "graph-cache", stopErr: fmt.Errorf("stuck")})
			},
			task:    fmt.Errorf("render failed"),
			wantErr: "stuck",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			if tt.setup != nil {
				tt.setup(app)
			}
			err := app.RunTask(context.Background(), func(ctx context.Context) error { return tt.task })
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunTaskStopsStartedComponentsOnStartFailure(t *testing.T) {
	app, _ := newTestApp(t)
	var events []string
	app.RegisterComponent(&stubComponent{name: "a", events: &events})
	app.RegisterComponent(&stubComponent{name: "b", events: &events, startErr: fmt.Errorf("boom")})

	app.RunTask(context.Background(), func(ctx context.Context) error {
		t.Error("task must not run")
		return nil
	})
	want := []string{"start:a", "start:b", "stop:a"}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestReadyCheck(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("empty registry: %v", err)
	}

	app.RegisterComponent(&stubComponent{name: "graph-cache", status: component.StatusDegraded})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "graph-cache=degraded") {
		t.Errorf("unexpected ready check error: %v", err)
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	app, _ := newTestApp(t)
	var events []string
	app.RegisterComponent(&stubComponent{name: "http-server", events: &events})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fmt.Sprint(events) != "[start:http-server stop:http-server]" {
		t.Errorf("events = %v", events)
	}
}

func TestSummaryWrite(t *testing.T) {
	registry := component.NewRegistry()
	registry.Register(&routedComponent{stubComponent{name: "http-server"}})
	registry.Register(&stubComponent{name: "graph-cache", status: component.StatusDegraded})

	s := NewSummary("dagdeps", "1.0.0")
	s.SetStartupDuration(1500 * time.Millisecond)

	var out bytes.Buffer
	s.Write(context.Background(), &out, registry)
	got := out.String()

	for _, want := range []string{
		"dagdeps 1.0.0 started in 1.50s",
		"HTTP Server [server] h2c (:8080)",
		"GET     /dag-dependencies -> DagDependencies",
		"Health: degraded",
		"└── ⚠️ graph-cache: degraded",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryWriteNilRegistry(t *testing.T) {
	var out bytes.Buffer
	NewSummary("dagdeps", "dev").Write(context.Background(), &out, nil)
	if !strings.Contains(out.String(), "dagdeps dev started") {
		t.Errorf("unexpected output %q", out.String())
	}
}
