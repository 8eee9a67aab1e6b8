package pngfile

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/raster"
	"github.com/custodia-labs/inkdash/internal/core/domain"
)

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestNewSink_Validation(t *testing.T) {
	_, err := NewSink(domain.DisplayConfig{Width: 0, Height: 122})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sink, err := NewSink(domain.DisplayConfig{Width: 250, Height: 122, PNGPath: filepath.Join(t.TempDir(), "out", "f.png")})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 250, 122), sink.Bounds())
	assert.Equal(t, "png", sink.Name())
	assert.NoError(t, sink.Close())
}

func TestSink_CommitWritesMonoImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	sink, err := NewSink(domain.DisplayConfig{Width: 16, Height: 8, PNGPath: path})
	require.NoError(t, err)

	img := image.NewGray(image.Rect(0, 0, 16, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.SetGray(3, 2, color.Gray{Y: 0x20})
	img.SetGray(4, 2, color.Gray{Y: 0xC0})

	require.NoError(t, sink.Commit(context.Background(), domain.Frame{Image: img}))

	got := readPNG(t, path)
	assert.Equal(t, image.Rect(0, 0, 16, 8), got.Bounds())
	assert.True(t, raster.Ink(got.At(3, 2)))
	assert.False(t, raster.Ink(got.At(4, 2)))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0600))

	require.NoError(t, WriteFile(path, image.NewGray(image.Rect(0, 0, 3, 3))))

	assert.Equal(t, image.Rect(0, 0, 3, 3), readPNG(t, path).Bounds())
}
