package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	// Path is a route pattern. A "*" segment matches any single segment and a
	// trailing "/" matches any suffix.
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Settings is the operator-facing part of Config.
type Settings struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       []string
	Blacklist       []string
}

// NewConfig builds a limiter configuration from settings with the default endpoint tiers.
func NewConfig(s Settings) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// model calls are the expensive tier
		{Path: "/interviews", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/interviews/stream", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/interviews/*", Method: http.MethodPut, Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/interviews/*/answers", Method: http.MethodPost, Limit: 100, Window: time.Hour, Burst: 10},
		{Path: "/interviews/import", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},

		// credential endpoints
		{Path: "/auth/login", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: http.MethodPost, Limit: 5, Window: time.Minute, Burst: 5},
		{Path: "/auth/password", Method: http.MethodPut, Limit: 5, Window: time.Minute, Burst: 5},

		{Path: "/users/me", Method: http.MethodPut, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/interviews/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},

		// reads use the default limit; /health is unlimited
	}
}

// ipSet turns a list of client identifiers into a lookup set, skipping blanks.
func ipSet(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range list {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
