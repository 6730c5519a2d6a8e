package detection

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"time"
)

// MinFrameSize is the smallest width and height the generator emits events for.
const MinFrameSize = 200

var (
	ErrFrameRateExceeded = errors.New("frame requested faster than the sampling rate allows")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrFrameTooLarge     = errors.New("frame dimensions exceed the supported maximum")
)

// Frame is one sampled raster. It is owned by the sampler until handed to a DetectionSource and
// does not outlive the tick that produced it, apart from the last-frame snapshot of a Monitor.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Image     *image.RGBA
	Source    string
}

func NewFrame(seq uint64, ts time.Time, img *image.RGBA, source string) *Frame {
	b := img.Bounds()
	return &Frame{
		Seq:       seq,
		Timestamp: ts,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Image:     img,
		Source:    source,
	}
}

type FrameSource interface {
	Grab(ctx context.Context) (*image.RGBA, error)
}

var barColors = []color.RGBA{
	{0xc0, 0xc0, 0xc0, 0xff},
	{0xc0, 0xc0, 0x00, 0xff},
	{0x00, 0xc0, 0xc0, 0xff},
	{0x00, 0xc0, 0x00, 0xff},
	{0xc0, 0x00, 0xc0, 0xff},
	{0xc0, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xc0, 0xff},
	{0x10, 0x10, 0x10, 0xff},
}

// TestPatternSource stands in for a live camera with a fixed color-bar raster.
type TestPatternSource struct {
	Width  int
	Height int
}

func (s TestPatternSource) Grab(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	if s.Width <= 0 {
		return img, nil
	}
	barWidth := max(s.Width/len(barColors), 1)
	for i, c := range barColors {
		r := image.Rect(i*barWidth, 0, (i+1)*barWidth, s.Height)
		if i == len(barColors)-1 {
			r.Max.X = s.Width
		}
		draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	return img, nil
}

// StaticImageSource hands out a fresh copy of one decoded image on every grab.
type StaticImageSource struct {
	Image image.Image
}

func (s StaticImageSource) Grab(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Image == nil {
		return nil, errors.New("static source has no image")
	}
	b := s.Image.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), s.Image, b.Min, draw.Src)
	return img, nil
}

var blankColor = color.RGBA{0x11, 0x18, 0x27, 0xff}

// BlankSource produces empty rasters of a fixed size, used for video uploads that are not decoded.
type BlankSource struct {
	Width  int
	Height int
}

func (s BlankSource) Grab(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: blankColor}, image.Point{}, draw.Src)
	return img, nil
}
