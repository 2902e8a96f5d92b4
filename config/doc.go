// Package config loads service configuration with Viper.
//
// Values are layered, later sources winning: registered defaults, the
// config.yml file, a .env file loaded through godotenv, then environment
// variables carrying the service prefix. DAGDEPS_CACHE_REFRESH_INTERVAL_SECONDS
// sets cache.refresh_interval_seconds for the "dagdeps" service.
//
//	var cfg AppConfig
//	err := config.LoadConfig("dagdeps", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithDefaults(map[string]any{"source.rescan_interval_seconds": 300}),
//	)
package config
