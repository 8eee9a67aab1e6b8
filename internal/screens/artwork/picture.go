package artwork

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/custodia-labs/inkdash/internal/screens/canvas"
)

// Fit scales src to cover bounds, cropping the overflow around the centre,
// and returns it in grayscale.
func Fit(src image.Image, bounds image.Rectangle) *image.Gray {
	dst := image.NewGray(bounds)
	sb := src.Bounds()
	if sb.Empty() || bounds.Empty() {
		return dst
	}

	// Crop src to the aspect ratio of bounds.
	crop := sb
	if sb.Dx()*bounds.Dy() > sb.Dy()*bounds.Dx() {
		w := sb.Dy() * bounds.Dx() / bounds.Dy()
		crop.Min.X = sb.Min.X + (sb.Dx()-w)/2
		crop.Max.X = crop.Min.X + w
	} else {
		h := sb.Dx() * bounds.Dy() / bounds.Dx()
		crop.Min.Y = sb.Min.Y + (sb.Dy()-h)/2
		crop.Max.Y = crop.Min.Y + h
	}

	draw.CatmullRom.Scale(dst, bounds, src, crop, draw.Src, nil)
	return dst
}

// Stretch spreads the gray levels of img over the full range, ignoring the
// darkest and brightest percent of pixels. Flat images are left alone.
func Stretch(img *image.Gray) {
	var hist [256]int
	for _, v := range img.Pix {
		hist[v]++
	}
	clip := len(img.Pix) / 100

	lo, hi := 0, 255
	for n := 0; lo < 255; lo++ {
		if n += hist[lo]; n > clip {
			break
		}
	}
	for n := 0; hi > 0; hi-- {
		if n += hist[hi]; n > clip {
			break
		}
	}
	if hi <= lo {
		return
	}

	span := hi - lo
	for i, v := range img.Pix {
		x := (int(v) - lo) * 255 / span
		img.Pix[i] = uint8(max(0, min(255, x)))
	}
}

// monochrome is the panel's palette.
var monochrome = color.Palette{color.Gray{Y: canvas.Black}, color.Gray{Y: canvas.White}}

// Dither reduces img to black and white with Floyd-Steinberg error
// diffusion.
func Dither(img *image.Gray) *image.Gray {
	b := img.Bounds()
	p := image.NewPaletted(b, monochrome)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)

	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if p.ColorIndexAt(x, y) == 1 {
				out.SetGray(x, y, color.Gray{Y: canvas.White})
			}
		}
	}
	return out
}

// Prepare turns a downloaded picture into a panel-ready image.
func Prepare(src image.Image, bounds image.Rectangle) *image.Gray {
	g := Fit(src, bounds)
	Stretch(g)
	return Dither(g)
}

// placeholder draws a stand-in when no picture could be fetched: ripples
// spreading from the upper left.
func placeholder(bounds image.Rectangle) *image.Gray {
	c := canvas.New(bounds)
	b := c.Bounds()
	for r := 8; r < b.Dx()+b.Dy(); r += 10 {
		c.Circle(b.Min.X+b.Dx()/4, b.Min.Y+b.Dy()/3, r, canvas.Black, false)
	}
	return c.Image()
}
