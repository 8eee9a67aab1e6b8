package domain

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerState_String(t *testing.T) {
	tests := []struct {
		state    WorkerState
		expected string
	}{
		{WorkerStarting, "starting"},
		{WorkerSleeping, "sleeping"},
		{WorkerRendering, "rendering"},
		{WorkerBackoff, "backoff"},
		{WorkerCancelled, "cancelled"},
		{WorkerState(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestFrame_IsEmpty(t *testing.T) {
	assert.True(t, Frame{}.IsEmpty())
	assert.True(t, Frame{Image: image.NewGray(image.Rect(0, 0, 0, 0))}.IsEmpty())
	assert.False(t, Frame{Image: image.NewGray(image.Rect(0, 0, 4, 4))}.IsEmpty())
}

func TestRenderRecord_Duration(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	r := RenderRecord{StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, r.Duration())

	r = RenderRecord{StartedAt: start, EndedAt: start.Add(-time.Second)}
	assert.Equal(t, time.Duration(0), r.Duration())
}

func TestScreenID_String(t *testing.T) {
	assert.Equal(t, "weather", ScreenWeather.String())
}
