package favicon

import (
	"image"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/setanarut/favicon/utils"
)

type Format int

const (
	FormatPNG Format = iota
	FormatICO
)

// Asset is one file of the exported set.
type Asset struct {
	Name   string
	Size   int
	Format Format
}

// Assets lists the exported files in write order.
var Assets = []Asset{
	{Name: "favicon-512.png", Size: 512, Format: FormatPNG},
	{Name: "favicon-16.png", Size: 16, Format: FormatPNG},
	{Name: "favicon-32.png", Size: 32, Format: FormatPNG},
	{Name: "apple-touch-icon.png", Size: 180, Format: FormatPNG},
	{Name: "favicon.ico", Size: 48, Format: FormatICO},
}

// ICOSizes are the resolutions embedded in the ICO. Each one is resampled
// from the canvas on its own.
var ICOSizes = []int{16, 32, 48}

// Export writes every entry of Assets into dir, which must already exist.
// Files already written stay in place if a later one fails.
func (g *Generator) Export(dir string, f Filter) ([]string, error) {
	if g.Canvas == nil {
		return nil, errors.New("export before build")
	}
	written := make([]string, 0, len(Assets))
	for _, a := range Assets {
		path := filepath.Join(dir, a.Name)
		var err error
		switch a.Format {
		case FormatICO:
			icons := make([]image.Image, 0, len(ICOSizes))
			for _, s := range ICOSizes {
				icons = append(icons, g.Derive(s, f))
			}
			err = utils.SaveICO(icons, path)
		default:
			err = utils.SaveImage(g.Derive(a.Size, f), path)
		}
		if err != nil {
			return written, errors.Wrapf(err, "export %s", a.Name)
		}
		written = append(written, path)
	}
	return written, nil
}
