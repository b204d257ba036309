package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/docproj/projection"
)

// clearDOCPROJEnv clears all DOCPROJ_* env vars to isolate tests from the ambient environment.
func clearDOCPROJEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCPROJ_ARRAY_RECURSION", "DOCPROJ_DEFAULT_ID", "DOCPROJ_ID_FIELD",
		"DOCPROJ_NORMALIZE_FIELD_NAMES", "DOCPROJ_MAX_INLINE_SIZE",
		"DOCPROJ_MAX_DOCUMENTS", "DOCPROJ_WORKERS",
		"DOCPROJ_CACHE_ENABLED", "DOCPROJ_CACHE_MAX_SIZE",
		"DOCPROJ_CACHE_TTL", "DOCPROJ_CACHE_SWEEP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearDOCPROJEnv(t)

	c := loadConfig()

	assert.Equal(t, projection.RecurseNestedArrays, c.ArrayRecursion)
	assert.Equal(t, projection.IncludeID, c.DefaultID)
	assert.Equal(t, "_id", c.IDField)
	assert.False(t, c.NormalizeFieldNames)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 1000, c.MaxDocuments)
	assert.Equal(t, 4, c.Workers)
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 32, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, projection.DefaultPolicies(), c.policies())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearDOCPROJEnv(t)
	t.Setenv("DOCPROJ_ARRAY_RECURSION", "no-recurse")
	t.Setenv("DOCPROJ_DEFAULT_ID", "exclude")
	t.Setenv("DOCPROJ_ID_FIELD", "key")
	t.Setenv("DOCPROJ_NORMALIZE_FIELD_NAMES", "true")
	t.Setenv("DOCPROJ_MAX_INLINE_SIZE", "1024")
	t.Setenv("DOCPROJ_MAX_DOCUMENTS", "10")
	t.Setenv("DOCPROJ_WORKERS", "2")
	t.Setenv("DOCPROJ_CACHE_ENABLED", "false")
	t.Setenv("DOCPROJ_CACHE_MAX_SIZE", "5")
	t.Setenv("DOCPROJ_CACHE_TTL", "1m")
	t.Setenv("DOCPROJ_CACHE_SWEEP_INTERVAL", "10s")

	c := loadConfig()

	assert.Equal(t, projection.DoNotRecurseNestedArrays, c.ArrayRecursion)
	assert.Equal(t, projection.ExcludeID, c.DefaultID)
	assert.Equal(t, "key", c.IDField)
	assert.True(t, c.NormalizeFieldNames)
	assert.Equal(t, int64(1024), c.MaxInlineSize)
	assert.Equal(t, 10, c.MaxDocuments)
	assert.Equal(t, 2, c.Workers)
	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 5, c.CacheMaxSize)
	assert.Equal(t, time.Minute, c.CacheTTL)
	assert.Equal(t, 10*time.Second, c.CacheSweepInterval)

	p := c.policies()
	assert.Equal(t, projection.DoNotRecurseNestedArrays, p.ArrayRecursion)
	assert.Equal(t, projection.ExcludeID, p.DefaultID)
	assert.Equal(t, "key", p.IDField)
	assert.Equal(t, projection.AllowComputedFields, p.ComputedFields)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearDOCPROJEnv(t)
	t.Setenv("DOCPROJ_ARRAY_RECURSION", "sometimes")
	t.Setenv("DOCPROJ_DEFAULT_ID", "maybe")
	t.Setenv("DOCPROJ_NORMALIZE_FIELD_NAMES", "perhaps")
	t.Setenv("DOCPROJ_MAX_DOCUMENTS", "banana")
	t.Setenv("DOCPROJ_WORKERS", "-3")
	t.Setenv("DOCPROJ_CACHE_TTL", "not-a-duration")

	c := loadConfig()

	assert.Equal(t, projection.RecurseNestedArrays, c.ArrayRecursion)
	assert.Equal(t, projection.IncludeID, c.DefaultID)
	assert.False(t, c.NormalizeFieldNames)
	assert.Equal(t, 1000, c.MaxDocuments)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
}
