package favicon

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), c)
	return img
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 200, G: 30, B: 40, A: 255}
)

func TestMinAlpha(t *testing.T) {
	img := solid(4, 4, white)
	assert.Equal(t, uint8(255), MinAlpha(img))

	img.SetNRGBA(2, 3, color.NRGBA{A: 17})
	assert.Equal(t, uint8(17), MinAlpha(img))

	assert.Equal(t, uint8(255), MinAlpha(image.NewNRGBA(image.Rectangle{})))
}

func TestStripBackgroundOpaque(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	img.SetNRGBA(0, 0, white)
	img.SetNRGBA(1, 0, color.NRGBA{R: 241, G: 241, B: 241, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 241, G: 240, B: 255, A: 255})
	img.SetNRGBA(3, 0, red)
	img.SetNRGBA(4, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 251})

	require.True(t, StripBackground(img, 250, 240))

	transparent := color.NRGBA{R: 255, G: 255, B: 255, A: 0}
	assert.Equal(t, transparent, img.NRGBAAt(0, 0))
	assert.Equal(t, transparent, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 241, G: 240, B: 255, A: 255}, img.NRGBAAt(2, 0), "G at threshold is not background")
	assert.Equal(t, red, img.NRGBAAt(3, 0))
	assert.Equal(t, transparent, img.NRGBAAt(4, 0))
}

func TestStripBackgroundTrustsExistingAlpha(t *testing.T) {
	img := solid(3, 3, white)
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 10, B: 10, A: 250})
	before := append([]uint8(nil), img.Pix...)

	assert.False(t, StripBackground(img, 250, 240))
	assert.Equal(t, before, img.Pix)
}

func TestStripBackgroundThresholdsAreIndependent(t *testing.T) {
	grey := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	img := solid(2, 2, grey)
	assert.True(t, StripBackground(img, 250, 240))
	assert.Equal(t, grey, img.NRGBAAt(0, 0))

	img = solid(2, 2, grey)
	assert.True(t, StripBackground(img, 250, 199))
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)

	img = solid(2, 2, white)
	assert.False(t, StripBackground(img, 255, 240))
	assert.Equal(t, white, img.NRGBAAt(0, 0))
}

func TestContentBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	_, ok := ContentBounds(img)
	assert.False(t, ok)

	img.SetNRGBA(3, 2, color.NRGBA{A: 1})
	img.SetNRGBA(15, 7, red)
	r, ok := ContentBounds(img)
	require.True(t, ok)
	assert.Equal(t, image.Rect(3, 2, 16, 8), r)
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{400, 400, 358, 358},
		{200, 100, 358, 179},
		{100, 200, 179, 358},
		{300, 120, 358, 143},
		{3, 7, 153, 358},
		{1, 1000, 1, 358},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, 512, 0.70)
		assert.Equal(t, tt.wantW, w, "width for %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "height for %dx%d", tt.w, tt.h)
	}
}

func TestCenterOffset(t *testing.T) {
	for _, w := range []int{1, 143, 179, 358, 357, 512} {
		off := CenterOffset(512, w, w)
		assert.Contains(t, []int{w, w + 1}, 512-2*off.X)
		assert.Equal(t, off.X, off.Y)
	}
	assert.Equal(t, image.Pt(77, 166), CenterOffset(512, 358, 179))
}

func TestBuildWhiteBackground(t *testing.T) {
	src := solid(1000, 600, white)
	fill(src, image.Rect(300, 100, 700, 500), red)

	g := NewGenerator(src)
	g.Build(DefaultOptions())

	assert.True(t, g.Stripped)
	assert.Equal(t, image.Rect(0, 0, 400, 400), g.Content.Bounds())
	assert.Equal(t, image.Rect(0, 0, 358, 358), g.Fitted.Bounds())
	assert.Equal(t, image.Pt(77, 77), g.Offset)
	require.Equal(t, image.Rect(0, 0, 512, 512), g.Canvas.Bounds())

	pasted := image.Rect(77, 77, 77+358, 77+358)
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			if !image.Pt(x, y).In(pasted) {
				require.Equal(t, uint8(0), g.Canvas.NRGBAAt(x, y).A, "alpha at %d,%d", x, y)
			}
		}
	}

	c := g.Canvas.NRGBAAt(256, 256)
	assert.InDelta(t, red.R, c.R, 1)
	assert.InDelta(t, red.G, c.G, 1)
	assert.InDelta(t, red.B, c.B, 1)
	assert.InDelta(t, 255, c.A, 1)

	// The source is left alone.
	assert.Equal(t, white, src.NRGBAAt(0, 0))
}

func TestBuildKeepsExistingTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 120, 60))
	fill(src, image.Rect(10, 10, 110, 50), white)
	fill(src, image.Rect(30, 20, 90, 40), color.NRGBA{R: 20, G: 90, B: 160, A: 128})

	g := NewGenerator(src)
	g.Build(DefaultOptions())

	assert.False(t, g.Stripped)
	assert.Equal(t, image.Rect(0, 0, 100, 40), g.Content.Bounds())
	assert.Equal(t, white, g.Content.NRGBAAt(0, 0), "white is kept when alpha is trusted")
	assert.Equal(t, image.Rect(0, 0, 358, 143), g.Fitted.Bounds())

	pasted := g.Fitted.Bounds().Add(g.Offset)
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			got := g.Canvas.NRGBAAt(x, y).A
			if image.Pt(x, y).In(pasted) {
				require.Equal(t, g.Fitted.NRGBAAt(x-g.Offset.X, y-g.Offset.Y).A, got, "alpha at %d,%d", x, y)
			} else {
				require.Equal(t, uint8(0), got, "alpha at %d,%d", x, y)
			}
		}
	}
}

func TestBuildFullyTransparentSource(t *testing.T) {
	g := NewGenerator(image.NewNRGBA(image.Rect(0, 0, 40, 20)))
	g.Build(DefaultOptions())

	assert.Equal(t, image.Rect(0, 0, 40, 20), g.Content.Bounds(), "nothing to crop to")
	assert.Equal(t, image.Rect(0, 0, 358, 179), g.Fitted.Bounds())
	assert.Equal(t, uint8(0), MinAlpha(g.Canvas))
	_, ok := ContentBounds(g.Canvas)
	assert.False(t, ok)
}

func TestDeriveIsSquare(t *testing.T) {
	g := NewGenerator(solid(64, 32, red))
	g.Build(DefaultOptions())

	for _, size := range []int{16, 32, 48, 180, 512} {
		d := g.Derive(size, FilterLanczos)
		assert.Equal(t, image.Rect(0, 0, size, size), d.Bounds())
	}
	assert.NotSame(t, g.Canvas, g.Derive(512, FilterLanczos))
}
