package detection

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ColorSuspicious = color.RGBA{0xef, 0x44, 0x44, 0xff}
	ColorObject     = color.RGBA{0xf5, 0x9e, 0x0b, 0xff}
	ColorNormal     = color.RGBA{0x22, 0xc5, 0x5e, 0xff}

	barTrackColor = color.RGBA{0x37, 0x41, 0x51, 0xff}
)

const (
	strokeWidth  = 3
	labelPadding = 2
	barHeight    = 4
	barGap       = 2
)

// Renderer draws event boxes and labels onto a frame. It holds no randomness, so the same
// events on the same surface always produce the same pixels.
type Renderer struct {
	ConfidenceBar bool
}

func StrokeColor(e Event) color.RGBA {
	if e.Suspicious() {
		return ColorSuspicious
	}
	if strings.Contains(strings.ToLower(e.Label), "object") {
		return ColorObject
	}
	return ColorNormal
}

func LabelText(e Event) string {
	return fmt.Sprintf("%s (%d%%)", e.Label, int(math.Round(e.Confidence*100)))
}

// Render is a no-op on a nil surface.
func (r *Renderer) Render(dst draw.Image, events []Event) {
	if dst == nil {
		return
	}
	if rgba, ok := dst.(*image.RGBA); ok && rgba == nil {
		return
	}
	for _, e := range events {
		r.renderOne(dst, e)
	}
}

func (r *Renderer) renderOne(dst draw.Image, e Event) {
	c := StrokeColor(e)
	box := image.Rect(e.Box.X, e.Box.Y, e.Box.X+e.Box.Width, e.Box.Y+e.Box.Height)

	strokeRect(dst, box, c)

	face := basicfont.Face7x13
	text := LabelText(e)
	textWidth := font.MeasureString(face, text).Ceil()
	labelHeight := face.Height + 2*labelPadding

	top := box.Min.Y - labelHeight
	if top < dst.Bounds().Min.Y {
		top = box.Min.Y
	}
	bg := image.Rect(box.Min.X, top, box.Min.X+textWidth+2*labelPadding, top+labelHeight)
	fillRect(dst, bg, c)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(bg.Min.X+labelPadding, bg.Min.Y+labelPadding+face.Ascent),
	}
	d.DrawString(text)

	if r.ConfidenceBar {
		y := box.Max.Y + barGap
		fillRect(dst, image.Rect(box.Min.X, y, box.Max.X, y+barHeight), barTrackColor)
		filled := int(math.Round(float64(box.Dx()) * e.Confidence))
		fillRect(dst, image.Rect(box.Min.X, y, box.Min.X+filled, y+barHeight), c)
	}
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+strokeWidth), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-strokeWidth, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+strokeWidth, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-strokeWidth, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}
