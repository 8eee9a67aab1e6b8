package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnknownScreen", ErrUnknownScreen},
		{"ErrDuplicateScreen", ErrDuplicateScreen},
		{"ErrInvalidInterval", ErrInvalidInterval},
		{"ErrNoScreens", ErrNoScreens},
		{"ErrControllerClosed", ErrControllerClosed},
		{"ErrHandoffTimeout", ErrHandoffTimeout},
		{"ErrRender", ErrRender},
		{"ErrCommit", ErrCommit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("switch to %q: %w", "nope", ErrUnknownScreen)

	assert.True(t, errors.Is(wrapped, ErrUnknownScreen))
	assert.False(t, errors.Is(wrapped, ErrDuplicateScreen))
	assert.Contains(t, wrapped.Error(), "unknown screen")
}

func TestErrRenderAndCommitAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrRender, ErrCommit))
	assert.False(t, errors.Is(ErrCommit, ErrRender))
}
