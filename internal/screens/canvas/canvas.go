// Package canvas draws monochrome dashboard layouts on a gray image.
// Everything is drawn in black or white so frames survive 1-bit
// conversion unchanged.
package canvas

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Ink colours.
const (
	Black uint8 = 0x00
	White uint8 = 0xff
)

// Glyph metrics of the built-in face.
const (
	CharWidth  = 7
	LineHeight = 13
	ascent     = 11
)

// HeaderHeight is the height of the inverted title bar.
const HeaderHeight = LineHeight + 4

// Canvas is a white gray image with drawing helpers.
// Coordinates outside the image are clipped.
type Canvas struct {
	img *image.Gray
}

// New creates a white canvas covering bounds.
func New(bounds image.Rectangle) *Canvas {
	c := &Canvas{img: image.NewGray(bounds)}
	c.Fill(White)
	return c
}

// Image returns the drawn image.
func (c *Canvas) Image() *image.Gray {
	return c.img
}

// Bounds returns the canvas bounds.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(v uint8) {
	for i := range c.img.Pix {
		c.img.Pix[i] = v
	}
}

// Set paints one pixel.
func (c *Canvas) Set(x, y int, v uint8) {
	if image.Pt(x, y).In(c.img.Rect) {
		c.img.SetGray(x, y, color.Gray{Y: v})
	}
}

// Text draws s with its top-left corner at (x, y) and returns the x
// just past the last glyph.
func (c *Canvas) Text(x, y int, s string, v uint8) int {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(color.Gray{Y: v}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(s)
	return d.Dot.X.Round()
}

// TextRight draws s so it ends at x.
func (c *Canvas) TextRight(x, y int, s string, v uint8) {
	c.Text(x-Measure(s), y, s, v)
}

// TextCentered draws s centred on x.
func (c *Canvas) TextCentered(x, y int, s string, v uint8) {
	c.Text(x-Measure(s)/2, y, s, v)
}

// Paragraph word-wraps s into the given width starting at (x, y) and
// draws at most maxLines lines. The last visible line is ellipsised when
// text is cut. Returns the y below the last line drawn.
func (c *Canvas) Paragraph(x, y, width, maxLines int, s string, v uint8) int {
	lines := Wrap(s, width/CharWidth)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsis(lines[maxLines-1], width/CharWidth)
	}
	for _, l := range lines {
		c.Text(x, y, l, v)
		y += LineHeight
	}
	return y
}

// Header draws an inverted title bar across the top with title on the
// left and right on the right. Returns the y below the bar.
func (c *Canvas) Header(title, right string) int {
	b := c.img.Rect
	c.FillRect(b.Min.X, b.Min.Y, b.Max.X-1, b.Min.Y+HeaderHeight-1, Black)
	c.Text(b.Min.X+3, b.Min.Y+2, title, White)
	if right != "" {
		c.TextRight(b.Max.X-3, b.Min.Y+2, right, White)
	}
	return b.Min.Y + HeaderHeight
}

// FillRect paints the rectangle with inclusive corners.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, v uint8) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y, v)
		}
	}
}

// Rect outlines the rectangle with inclusive corners.
func (c *Canvas) Rect(x0, y0, x1, y1 int, v uint8) {
	c.Line(x0, y0, x1, y0, v)
	c.Line(x0, y1, x1, y1, v)
	c.Line(x0, y0, x0, y1, v)
	c.Line(x1, y0, x1, y1, v)
}

// Line draws a Bresenham line.
func (c *Canvas) Line(x0, y0, x1, y1 int, v uint8) {
	c.line(x0, y0, x1, y1, v, 1)
}

// Dotted draws a line that paints every other pixel.
func (c *Canvas) Dotted(x0, y0, x1, y1 int, v uint8) {
	c.line(x0, y0, x1, y1, v, 2)
}

func (c *Canvas) line(x0, y0, x1, y1 int, v uint8, every int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for i := 0; ; i++ {
		if i%every == 0 {
			c.Set(x0, y0, v)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Circle draws a circle outline, or a disc when fill is set.
func (c *Canvas) Circle(cx, cy, r int, v uint8, fill bool) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d := x*x + y*y
			if d > r*r {
				continue
			}
			if fill || d >= (r-1)*(r-1) {
				c.Set(cx+x, cy+y, v)
			}
		}
	}
}

// Bar draws a horizontal gauge filled to pct percent.
func (c *Canvas) Bar(x, y, width, height int, pct float64) {
	c.Rect(x, y, x+width-1, y+height-1, Black)
	if pct <= 0 {
		return
	}
	if pct > 100 {
		pct = 100
	}
	fill := int(float64(width-2) * pct / 100)
	if fill > 0 {
		c.FillRect(x+1, y+1, x+fill, y+height-2, Black)
	}
}

// Measure returns the width of s in pixels.
func Measure(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Round()
}

// Wrap breaks s into lines of at most cols characters. Words longer than
// a line are split.
func Wrap(s string, cols int) []string {
	if cols <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		for len(word) > cols {
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			lines = append(lines, word[:cols])
			word = word[cols:]
		}
		switch {
		case cur.Len() == 0:
			cur.WriteString(word)
		case cur.Len()+1+len(word) <= cols:
			cur.WriteByte(' ')
			cur.WriteString(word)
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func ellipsis(s string, cols int) string {
	if len(s)+3 <= cols {
		return s + "..."
	}
	if cols < 3 {
		return s
	}
	return strings.TrimRight(s[:cols-3], " ") + "..."
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
