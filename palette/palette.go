/*
Package palette reduces the number of colors in an image.

SITF compresses horizontal runs of identical pixels so photographic images
with slowly changing colors encode poorly. Reducing the image to a small
palette first trades exactness for much longer runs.
*/
package palette

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// countColors returns the number of times each color is used in m.
func countColors(m image.Image) map[color.NRGBA]int {
	colors := make(map[color.NRGBA]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)]++
		}
	}
	return colors
}

// Count returns the number of unique colors in m.
func Count(m image.Image) int {
	return len(countColors(m))
}

func hasTransparency(colors map[color.NRGBA]int) bool {
	for c := range colors {
		if c.A < 0xff {
			return true
		}
	}
	return false
}

// Reduce returns m using no more than n colors. If m already uses n colors
// or fewer, or n is less than one, m is returned unchanged.
func Reduce(m image.Image, n int) image.Image {
	colors := countColors(m)
	if n < 1 || len(colors) <= n {
		return m
	}

	q := quantize.MedianCutQuantizer{
		AddTransparent: hasTransparency(colors),
	}

	b := m.Bounds()
	p := q.Quantize(make(color.Palette, 0, n), m)
	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm
}
