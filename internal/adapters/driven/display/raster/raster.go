// Package raster converts frames into what a monochrome panel can show.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Gray returns img as a gray image with its origin at (0,0).
func Gray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Rotate90 turns a landscape image a quarter turn so it fits a portrait
// panel: the top row of the source ends up on the right edge.
func Rotate90(img image.Image) *image.Gray {
	src := Gray(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetGray(x, y, src.GrayAt(y, h-1-x))
		}
	}
	return dst
}

// Fit orients img for a panel of the given bounds. A landscape frame on
// a portrait panel is rotated; anything else is drawn as is, clipped.
func Fit(img image.Image, panel image.Rectangle) image.Image {
	b := img.Bounds()
	if b.Dx() > b.Dy() && panel.Dx() < panel.Dy() {
		return Rotate90(img)
	}
	return img
}

// Mono thresholds img to a 1-bit image of the given bounds, packed the way
// SSD1306-family and Waveshare controllers expect.
func Mono(img image.Image, bounds image.Rectangle) *image1bit.VerticalLSB {
	dst := image1bit.NewVerticalLSB(bounds)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// Ink reports whether the pixel is dark on a 1-bit panel.
func Ink(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 0x80
}
