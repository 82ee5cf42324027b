package core

import (
	"fmt"
	"strings"
)

// ProfileDefaults holds environment-specific default configuration values.
// Profiles provide defaults only; explicit env vars always override.
type ProfileDefaults struct {
	Name string

	// DemoFallback enables canned demo responses when the downstream
	// capability is unavailable. When false the call fails with
	// SERVICE_UNAVAILABLE instead.
	DemoFallback bool

	UpstreamTimeoutSeconds int
	LogLevel               string
	ExposeDebug            bool
	WalletClientCacheSize  int
}

var profiles = map[string]*ProfileDefaults{
	"dev": {
		Name:                   "dev",
		DemoFallback:           true,
		UpstreamTimeoutSeconds: 30,
		LogLevel:               "debug",
		ExposeDebug:            true,
		WalletClientCacheSize:  64,
	},
	"staging": {
		Name:                   "staging",
		DemoFallback:           true,
		UpstreamTimeoutSeconds: 20,
		LogLevel:               "info",
		ExposeDebug:            true,
		WalletClientCacheSize:  256,
	},
	"prod": {
		Name:                   "prod",
		DemoFallback:           false,
		UpstreamTimeoutSeconds: 15,
		LogLevel:               "info",
		ExposeDebug:            false,
		WalletClientCacheSize:  1024,
	},
}

// LoadProfile returns profile defaults for the given name.
// Empty name defaults to "dev". Unknown names return an error.
func LoadProfile(name string) (*ProfileDefaults, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = "dev"
	}
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (valid: dev, staging, prod)", name)
	}
	copy := *p
	return &copy, nil
}
