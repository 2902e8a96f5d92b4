// Package bootstrap runs the dagdeps application lifecycle.
//
// NewApp applies config defaults, validates the config, and initializes the
// global logger. Components registered on the app start in order, hooks run
// around them, and shutdown happens in reverse on SIGINT/SIGTERM:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(sourceComponent)
//	app.RegisterComponent(cacheComponent)
//	app.RegisterComponent(serverComponent)
//	err = app.Run(ctx)
//
// RunTask follows the same lifecycle for one-shot commands.
package bootstrap
