package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/docproj/projection"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Projection policies.
	ArrayRecursion projection.ArrayRecursionPolicy
	DefaultID      projection.DefaultIDPolicy
	IDField        string

	// Decoding.
	NormalizeFieldNames bool
	MaxInlineSize       int64

	// Apply tool limits.
	MaxDocuments int
	Workers      int

	// Compiled tree cache.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from DOCPROJ_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		ArrayRecursion:      envArrayRecursion("DOCPROJ_ARRAY_RECURSION", projection.RecurseNestedArrays),
		DefaultID:           envDefaultID("DOCPROJ_DEFAULT_ID", projection.IncludeID),
		IDField:             envString("DOCPROJ_ID_FIELD", projection.DefaultIDField),
		NormalizeFieldNames: envBool("DOCPROJ_NORMALIZE_FIELD_NAMES", false),
		MaxInlineSize:       int64(envInt("DOCPROJ_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxDocuments:        envInt("DOCPROJ_MAX_DOCUMENTS", 1000),
		Workers:             envInt("DOCPROJ_WORKERS", 4),
		CacheEnabled:        envBool("DOCPROJ_CACHE_ENABLED", true),
		CacheMaxSize:        envInt("DOCPROJ_CACHE_MAX_SIZE", 32),
		CacheTTL:            envDuration("DOCPROJ_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval:  envDuration("DOCPROJ_CACHE_SWEEP_INTERVAL", 60*time.Second),
	}
}

// policies returns the projection policies selected by the configuration.
func (c *serverConfig) policies() projection.Policies {
	p := projection.DefaultPolicies()
	p.ArrayRecursion = c.ArrayRecursion
	p.DefaultID = c.DefaultID
	p.IDField = c.IDField
	return p
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envArrayRecursion(key string, fallback projection.ArrayRecursionPolicy) projection.ArrayRecursionPolicy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	p, err := projection.ParseArrayRecursionPolicy(v)
	if err != nil {
		slog.Warn("invalid policy env var, using default", "key", key, "value", v, "default", fallback.String()) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return p
}

func envDefaultID(key string, fallback projection.DefaultIDPolicy) projection.DefaultIDPolicy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	p, err := projection.ParseDefaultIDPolicy(v)
	if err != nil {
		slog.Warn("invalid policy env var, using default", "key", key, "value", v, "default", fallback.String()) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return p
}
