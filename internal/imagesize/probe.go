package imagesize

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/afero"
	_ "golang.org/x/image/webp"

	"dsproc/internal/services"
)

// Size is an image's pixel dimensions.
type Size struct {
	Width  int
	Height int
}

// Below reports whether both sides are strictly smaller than d.
func (s Size) Below(d Dimension) bool {
	return s.Width < int(d) && s.Height < int(d)
}

// Probe reads width and height from the header of the image at path.
func Probe(fsys afero.Fs, path string) (Size, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return Size{}, services.Wrap(services.ErrIO, "probe", path, "open image", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, services.Wrap(services.ErrFormat, "probe", path, "decode image header", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}
