// Command dagdeps serves the cross-workflow dependency graph built from
// workflow definition files.
//
// Usage:
//
//	dagdeps [-config path/to/config.yml]
//	dagdeps -print    # build once, print the view as JSON and exit
//	dagdeps -version
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/dagdeps/bootstrap"
	"github.com/kbukum/dagdeps/config"
	"github.com/kbukum/dagdeps/depview"
	"github.com/kbukum/dagdeps/graphcache"
	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/observability"
	"github.com/kbukum/dagdeps/server"
	"github.com/kbukum/dagdeps/version"
	"github.com/kbukum/dagdeps/workflow"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dagdeps:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	configFile := fs.String("config", "", "path to config.yml (default: searched in ./cmd/dagdeps, ./config, .)")
	printOnly := fs.Bool("print", false, "build the graph once, print it as JSON and exit")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Println(version.Get().Full())
		return nil
	}

	cfg := &AppConfig{}
	loadOpts := []config.LoaderOption{config.WithDefaults(defaults)}
	if *configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, loadOpts...); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	var appOpts []bootstrap.Option
	if *printOnly {
		// Keep stdout for the JSON document.
		cfg.Logging.Output = "stderr"
		appOpts = append(appOpts, bootstrap.WithSummaryOutput(io.Discard))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	metrics, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	cache, err := wire(app, metrics)
	if err != nil {
		return err
	}

	if *printOnly {
		return app.RunTask(ctx, func(ctx context.Context) error {
			return printView(ctx, os.Stdout, cache, cfg.View)
		})
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, app.Logger)
		srv.ApplyMiddleware(cfg.Name, metrics)
		srv.RegisterDependencies(cache, cfg.View)
		srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}
	return app.Run(ctx)
}

// wire builds the definition source and the graph cache and registers
// both with app.
func wire(app *bootstrap.App[*AppConfig], metrics *observability.Metrics) (*graphcache.Cache, error) {
	cfg := app.Cfg

	dirSource, err := workflow.NewDirSource(workflow.DirSourceConfig{
		Dirs:           cfg.Source.Dirs,
		RescanInterval: cfg.Source.RescanInterval(),
		FileCacheSize:  cfg.Source.FileCacheSize,
	}, logger.Get("workflow-source"))
	if err != nil {
		return nil, err
	}

	var source workflow.Source = workflow.WithTracing(dirSource, "workflow")
	if metrics != nil {
		source = workflow.WithMetrics(source, metrics)
	}
	source = workflow.WithLogging(source, logger.Get("workflow-source"))
	source = workflow.WithRetry(source, cfg.Source.Retry, logger.Get("workflow-source"))

	cacheOpts := append(cfg.Cache.Options(),
		graphcache.WithLogger(logger.Get("graph-cache")),
		graphcache.WithMetrics(metrics),
	)
	cache := graphcache.New(source, cfg.Cache.Interval(), cacheOpts...)

	if err := app.RegisterComponent(workflow.NewDirComponent(dirSource, nil)); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(graphcache.NewComponent(cache, nil)); err != nil {
		return nil, err
	}
	return cache, nil
}

// setupTelemetry installs the OTLP exporters enabled in the config and
// registers their shutdown. It returns nil metrics when metrics are off.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*AppConfig]) (*observability.Metrics, error) {
	obs := &app.Cfg.Observability

	if obs.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, &obs.Tracing)
		if err != nil {
			return nil, err
		}
		app.OnStop(tp.Shutdown)
	}

	if !obs.Metrics.Enabled {
		return nil, nil
	}
	mp, err := observability.InitMeter(ctx, &obs.Metrics)
	if err != nil {
		return nil, err
	}
	app.OnStop(mp.Shutdown)
	return observability.NewMetrics(observability.Meter(serviceName))
}

type printout struct {
	View   depview.View `json:"view"`
	Levels [][]string   `json:"levels"`
}

func printView(ctx context.Context, w io.Writer, cache *graphcache.Cache, view depview.Config) error {
	snap, err := cache.Get(ctx)
	if err != nil && !snap.Built() {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(printout{
		View:   depview.Render(view.Title, snap, view.Params(), err),
		Levels: depview.LayerReport(snap.Graph),
	})
}
