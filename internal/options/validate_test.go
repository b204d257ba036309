package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{"none", []bool{false, false}, "none"},
		{"no sources at all", nil, "none"},
		{"one", []bool{false, true}, ""},
		{"two", []bool{true, true}, "many"},
		{"three", []bool{true, true, true}, "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("none", "many", tt.sources...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
