package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig is the limit applied to one route
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // requests per window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket size, defaults to Limit
}

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// RunEndpoints are the routes that start a talent-match run
var RunEndpoints = []string{"/run", "/api/run", "/api/run/stream"}

// NewConfig builds a config where every run endpoint shares runLimit per
// runWindow and everything else falls back to the default limit
func NewConfig(enabled bool, runLimit int, runWindow time.Duration, runBurst int, defaultLimit int, defaultWindow time.Duration, whitelist []string) *Config {
	cfg := &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool, len(whitelist)),
	}
	for _, ip := range whitelist {
		cfg.Whitelist[ip] = true
	}
	for _, path := range RunEndpoints {
		cfg.EndpointConfigs = append(cfg.EndpointConfigs, EndpointConfig{
			Path:   path,
			Method: http.MethodPost,
			Limit:  runLimit,
			Window: runWindow,
			Burst:  runBurst,
		})
	}
	return cfg
}

func defaultConfig() *Config {
	return NewConfig(true, 30, time.Hour, 3, 600, time.Minute, nil)
}
