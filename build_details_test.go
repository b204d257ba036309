package docproj

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := Version()
	assert.True(t, v == "dev" || strings.HasPrefix(v, "v"), "unexpected version %q", v)
}

func TestBuildMetadataDefaults(t *testing.T) {
	// Development builds are not stamped through ldflags.
	if Commit() != "unknown" {
		t.Skip("stamped build")
	}
	assert.Equal(t, "unknown", BuildTime())
}

func TestGoVersion(t *testing.T) {
	assert.Equal(t, runtime.Version(), GoVersion())
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.Equal(t, "docproj/"+Version(), ua)
	assert.NotContains(t, ua, " ")
}

func TestBuildInfo(t *testing.T) {
	info := BuildInfo()
	for _, want := range []string{
		"Version: " + Version(),
		"Commit: " + Commit(),
		"Build Time: " + BuildTime(),
		"Go Version: " + GoVersion(),
	} {
		assert.Contains(t, info, want)
	}
}
