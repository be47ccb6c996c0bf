package utils

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"math"
	"os"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	ico "github.com/sergeymakinen/go-ico"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/floats"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "", "dominantcolor":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, errors.Errorf("unknown palette method %q", s)
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ya, yb := luminance(a), luminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		// Empty on purpose: callers decide what a colorless image maps to.
		return nil
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors greedily picks k colors, seeding with the heaviest
// and then favoring candidates far (in Lab) from everything already chosen.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	labs := make([][]float64, len(cands))
	maxW, seed := 0.0, 0
	for i, c := range cands {
		l, a, b := c.Col.Clamped().Lab()
		labs[i] = []float64{l, a, b}
		if c.Weight > maxW {
			maxW, seed = c.Weight, i
		}
	}
	if maxW <= 0 {
		maxW = 1
	}

	picked := []int{seed}
	taken := make([]bool, len(cands))
	taken[seed] = true
	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range cands {
			if taken[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, s := range picked {
				nearest = min(nearest, floats.Distance(labs[i], labs[s], 2))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(cands[i].Weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		taken[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, 0, len(picked))
	for _, i := range picked {
		out = append(out, cands[i].Col.Clamped())
	}
	return out
}

// ExtractKMeansPalette clusters the visible pixels of img in RGB.
// Fully transparent pixels are ignored.
func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large images.
	maxSamples := 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255,
				float64(c.G) / 255,
				float64(c.B) / 255,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	// Most populated first.
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(img, k)
	default:
		return ExtractDominantPalette(img, k)
	}
}

// ReadImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP from path.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("%s: empty %s image", path, format)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", filename)
	}
	return f.Close()
}

// SaveICO stores every image of icons as one entry of a single ICO file.
func SaveICO(icons []image.Image, filename string) error {
	if len(icons) == 0 {
		return errors.New("no icon images")
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := ico.EncodeAll(f, icons); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", filename)
	}
	return f.Close()
}
