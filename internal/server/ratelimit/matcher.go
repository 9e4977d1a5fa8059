package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for routes that are never throttled
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the config for path and method, or nil when the
// default limit applies. Health checks are never limited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		return unlimited
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
