package config

const (
	// DefaultPort is the daemon's default listen port
	DefaultPort = 7420
	// DefaultSampleSize is the number of characters the detector inspects
	DefaultSampleSize = 2000
	// DefaultEngineTimeoutMs bounds a single engine call
	DefaultEngineTimeoutMs = 5000
	// DefaultDebounceMs is the watcher debounce window
	DefaultDebounceMs = 500
	// DefaultCacheSize is the number of pipeline results kept in memory
	DefaultCacheSize = 256
)

// Default returns a Config with sensible default values
func Default() *Config {
	enabled := true
	return &Config{
		Version: 1,
		Minify: MinifyConfig{
			DefaultLevel: 4,
			DefaultType:  "auto",
		},
		Detection: DetectionConfig{
			SampleSize: DefaultSampleSize,
		},
		Engines: EnginesConfig{
			Enabled:   &enabled,
			TimeoutMs: DefaultEngineTimeoutMs,
		},
		Watcher: WatcherConfig{
			DebounceMs: DefaultDebounceMs,
		},
		Daemon: DaemonConfig{
			Host: "127.0.0.1",
			Port: DefaultPort,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Size: DefaultCacheSize,
		},
	}
}
