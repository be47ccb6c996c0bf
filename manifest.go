package favicon

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/setanarut/favicon/utils"
)

const ManifestName = "site.webmanifest"

type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest is the subset of the W3C web app manifest that refers to the icon set.
type Manifest struct {
	Name            string         `json:"name,omitempty"`
	ShortName       string         `json:"short_name,omitempty"`
	Icons           []ManifestIcon `json:"icons"`
	ThemeColor      string         `json:"theme_color,omitempty"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Display         string         `json:"display"`
}

// ThemeColor returns the dominant color of the visible content as "#rrggbb".
// An empty string means no color could be extracted.
func ThemeColor(img image.Image, method utils.PaletteMethod) string {
	palette := contentPalette(img, 1, method)
	if len(palette) == 0 {
		return ""
	}
	return palette[0].Clamped().Hex()
}

// BackgroundColor returns the brightest of the three most distinct content
// colors, or "#ffffff" when none can be extracted.
func BackgroundColor(img image.Image, method utils.PaletteMethod) string {
	palette := contentPalette(img, 3, method)
	if len(palette) == 0 {
		return "#ffffff"
	}
	utils.SortPaletteByBrightness(palette)
	return palette[len(palette)-1].Clamped().Hex()
}

// contentPalette crops transparent margins away first so they do not vote.
func contentPalette(img image.Image, k int, method utils.PaletteMethod) []colorful.Color {
	src := imaging.Clone(img)
	r, ok := ContentBounds(src)
	if !ok {
		return nil
	}
	return utils.ExtractPalette(imaging.Crop(src, r), k, method)
}

// NewManifest lists the PNG assets and derives the theme color from the canvas.
func (g *Generator) NewManifest(name, shortName string, method utils.PaletteMethod) Manifest {
	m := Manifest{
		Name:            name,
		ShortName:       shortName,
		ThemeColor:      ThemeColor(g.Canvas, method),
		BackgroundColor: BackgroundColor(g.Canvas, method),
		Display:         "standalone",
	}
	for _, a := range Assets {
		if a.Format != FormatPNG {
			continue
		}
		sz := strconv.Itoa(a.Size)
		m.Icons = append(m.Icons, ManifestIcon{
			Src:   "/" + a.Name,
			Sizes: sz + "x" + sz,
			Type:  "image/png",
		})
	}
	return m
}

func WriteManifest(dir string, m Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal manifest")
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", errors.Wrap(err, "write manifest")
	}
	return path, nil
}
