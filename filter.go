package favicon

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// Filter names a resampling backend.
type Filter string

const (
	FilterLanczos    Filter = "lanczos"
	FilterLanczos3   Filter = "lanczos3"
	FilterCatmullRom Filter = "catmullrom"
)

var filters = []Filter{FilterLanczos, FilterLanczos3, FilterCatmullRom}

func ParseFilter(s string) (Filter, error) {
	for _, f := range filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown filter %q (want one of %v)", s, filters)
}

// Resize resamples img to exactly w x h. Unknown filters fall back to lanczos.
func (f Filter) Resize(img image.Image, w, h int) *image.NRGBA {
	switch f {
	case FilterLanczos3:
		return imaging.Clone(resize.Resize(uint(w), uint(h), img, resize.Lanczos3))
	case FilterCatmullRom:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return dst
	default:
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}
}

func (f Filter) String() string { return string(f) }
