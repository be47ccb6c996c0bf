package favicon

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

type Options struct {
	// Minimum alpha above which the source counts as fully opaque and
	// the near-white background is stripped.
	// 250 tolerates encoders that leave a few almost-opaque pixels.
	OpaqueAlpha uint8
	// Per-channel level above which an opaque pixel is treated as background.
	// Independent of OpaqueAlpha; lower values also eat light greys.
	WhiteLevel uint8
	// Side of the square master canvas in pixels.
	CanvasSize int
	// Fraction of CanvasSize the longer side of the content may occupy.
	// The remainder is padding around the mark.
	FillRatio float64
	// Resampling used for the fit and for every derivative.
	Filter Filter
}

func DefaultOptions() Options {
	return Options{
		OpaqueAlpha: 250,
		WhiteLevel:  240,
		CanvasSize:  512,
		FillRatio:   0.70,
		Filter:      FilterLanczos,
	}
}

// Generator keeps every pipeline stage so callers can inspect intermediate results.
type Generator struct {
	Source   *image.NRGBA
	Stripped bool
	Content  *image.NRGBA
	Fitted   *image.NRGBA
	Offset   image.Point
	Canvas   *image.NRGBA
}

// NewGenerator normalizes img to 8-bit NRGBA anchored at the origin.
// The caller's image is never modified.
func NewGenerator(img image.Image) *Generator {
	return &Generator{Source: imaging.Clone(img)}
}

// Build runs strip, crop, fit and centering in that order.
func (g *Generator) Build(opt Options) {
	work := imaging.Clone(g.Source)
	g.Stripped = StripBackground(work, opt.OpaqueAlpha, opt.WhiteLevel)

	if r, ok := ContentBounds(work); ok {
		work = imaging.Crop(work, r)
	}
	g.Content = work

	b := work.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), opt.CanvasSize, opt.FillRatio)
	g.Fitted = opt.Filter.Resize(work, w, h)

	g.Offset = CenterOffset(opt.CanvasSize, w, h)
	canvas := imaging.New(opt.CanvasSize, opt.CanvasSize, color.NRGBA{})
	g.Canvas = imaging.Overlay(canvas, g.Fitted, g.Offset, 1.0)
}

// Derive resamples the canvas straight to a size x size square.
func (g *Generator) Derive(size int, f Filter) *image.NRGBA {
	if size == g.Canvas.Bounds().Dx() && size == g.Canvas.Bounds().Dy() {
		return imaging.Clone(g.Canvas)
	}
	return f.Resize(g.Canvas, size, size)
}

// MinAlpha returns the lowest alpha value in img, or 255 for an empty image.
func MinAlpha(img *image.NRGBA) uint8 {
	lo := uint8(255)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := img.Pix[i+3]; a < lo {
				lo = a
			}
			i += 4
		}
	}
	return lo
}

// StripBackground rewrites near-white pixels to transparent white, but only
// when the image carries no transparency of its own (MinAlpha > opaque).
// It reports whether the rewrite ran.
func StripBackground(img *image.NRGBA, opaque, white uint8) bool {
	if MinAlpha(img) <= opaque {
		return false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			p := img.Pix[i : i+4 : i+4]
			if p[0] > white && p[1] > white && p[2] > white {
				p[0], p[1], p[2], p[3] = 255, 255, 255, 0
			}
			i += 4
		}
	}
	return true
}

// ContentBounds returns the smallest rectangle holding every pixel with a
// non-zero alpha. ok is false when the image is fully transparent.
func ContentBounds(img *image.NRGBA) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[i+3] != 0 {
				minX = min(minX, x)
				maxX = max(maxX, x)
				minY = min(minY, y)
				maxY = max(maxY, y)
			}
			i += 4
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// FitSize scales w x h so the limiting side becomes int(canvas*ratio),
// keeping the aspect ratio. Results are truncated and never below 1.
func FitSize(w, h, canvas int, ratio float64) (int, int) {
	limit := float64(int(float64(canvas) * ratio))
	scale := min(limit/float64(w), limit/float64(h))
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// CenterOffset is the top-left corner that centers a w x h image on a
// canvas x canvas square, rounding toward the top-left.
func CenterOffset(canvas, w, h int) image.Point {
	return image.Pt((canvas-w)/2, (canvas-h)/2)
}
