package codec

import (
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("sitf", string(metadataStart), DecodeImage, DecodeConfig)
}

// DecodeImage reads a SITF document from r and returns it as an
// image.Image.
func DecodeImage(r io.Reader) (image.Image, error) {
	res, err := Decode(r)
	if err != nil {
		return nil, err
	}
	g, err := res.Grid()
	if err != nil {
		return nil, err
	}
	return g.Image(), nil
}

// DecodeConfig returns the color model and dimensions of a SITF document.
// SITF has no header so the whole document is read to find them.
func DecodeConfig(r io.Reader) (image.Config, error) {
	res, err := Decode(r)
	if err != nil {
		return image.Config{}, err
	}
	var width, height uint32
	for _, e := range res.Entries {
		if e.End > width {
			width = e.End
		}
		if e.Y > height {
			height = e.Y
		}
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(width),
		Height:     int(height),
	}, nil
}
