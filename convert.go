package sitf

import (
	"bufio"
	"image"
	_ "image/gif"  // GIF input
	_ "image/jpeg" // JPEG input
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/sitf/codec"
	"github.com/bodgit/sitf/palette"
	"github.com/bodgit/sitf/preview"
)

// writeFile writes out via a temporary file in the same directory which is
// renamed into place once fn succeeds, so a failed conversion leaves nothing
// behind.
func writeFile(out string, fn func(io.Writer) error) error {
	f, err := ioutil.TempFile(filepath.Dir(out), "."+filepath.Base(out)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), out)
}

func (c *Converter) readSITF(in string) (*codec.Grid, error) {
	f, err := os.Open(in)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := codec.Decode(f, c.codecOptions()...)
	if err != nil {
		return nil, err
	}
	for _, d := range res.Diagnostics {
		c.logger.Printf("%s: %s\n", in, d)
	}

	return res.Grid(c.codecOptions()...)
}

// ToSITF converts the image in file in to SITF, writing it to out with the
// given metadata. Any format registered with the image package is accepted.
func (c *Converter) ToSITF(in, out, metadata string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	if c.colors > 0 {
		n := palette.Count(m)
		m = palette.Reduce(m, c.colors)
		c.logger.Printf("Reduced %s from %d to %d colors\n", in, n, palette.Count(m))
	}

	g := codec.FromImage(m)
	if err := writeFile(out, func(w io.Writer) error {
		return codec.Encode(w, g, metadata, c.codecOptions()...)
	}); err != nil {
		return err
	}

	c.logger.Printf("Converted PNG -> SITF (%dx%d) => %s\n", g.Width, g.Height, out)
	return nil
}

// ToPNG converts the SITF document in file in to PNG, writing it to out.
func (c *Converter) ToPNG(in, out string) error {
	g, err := c.readSITF(in)
	if err != nil {
		return err
	}

	if err := writeFile(out, func(w io.Writer) error {
		return png.Encode(w, g.Image())
	}); err != nil {
		return err
	}

	c.logger.Printf("Converted SITF -> PNG (%dx%d) => %s\n", g.Width, g.Height, out)
	return nil
}

// Preview converts the SITF document in file in to a PNG resampled for
// display, writing it to out. With both width and height the image is
// fitted within them keeping its aspect ratio, with only one the other is
// derived from it.
func (c *Converter) Preview(in, out string, width, height int, filter preview.Filter) error {
	g, err := c.readSITF(in)
	if err != nil {
		return err
	}

	var m *image.NRGBA
	if width > 0 && height > 0 {
		m, err = preview.Fit(g.Image(), width, height, filter)
	} else {
		m, err = preview.Scale(g.Image(), width, height, filter)
	}
	if err != nil {
		return err
	}

	if err := writeFile(out, func(w io.Writer) error {
		return png.Encode(w, m)
	}); err != nil {
		return err
	}

	c.logger.Printf("Previewed SITF (%dx%d) as %dx%d => %s\n", g.Width, g.Height, m.Bounds().Dx(), m.Bounds().Dy(), out)
	return nil
}
