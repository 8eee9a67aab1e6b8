// Package frameview rasterises frames into terminal text.
package frameview

import (
	"image"
	"image/color"
	"strings"
)

// Threshold is the luminance below which a pixel counts as ink.
const Threshold = 0x80

// Render draws img with half-block characters: each cell covers one
// column and two rows of pixels. Odd heights pad the last row with paper.
func Render(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()

	var sb strings.Builder
	sb.Grow((b.Dx()*3 + 1) * (b.Dy()+1) / 2)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := ink(img, x, y)
			bottom := y+1 < b.Max.Y && ink(img, x, y+1)
			sb.WriteString(cell(top, bottom))
		}
	}
	return sb.String()
}

func cell(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}

func ink(img image.Image, x, y int) bool {
	g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
	return g.Y < Threshold
}
