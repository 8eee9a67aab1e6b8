package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"release build", "1.4.0"},
		{"dev build", "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := version
			version = tt.version
			defer func() { version = original }()

			out, err := execute(t, context.Background(), "version")

			assert.NoError(t, err)
			assert.Contains(t, out, "inkdash version "+tt.version)
		})
	}
}
