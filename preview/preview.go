/*
Package preview resamples decoded images for display.

SITF images are often tiny so they are scaled up for viewing. Nearest
neighbor keeps hard pixel edges, the other filters smooth them.
*/
package preview

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/gift"
)

// Filter is a resampling filter.
type Filter int

// Resampling filters
const (
	Nearest Filter = iota
	Bilinear
	Cubic
	Lanczos
)

var errEmpty = errors.New("preview: image is empty")

var filters = [...]struct {
	name      string
	resampler gift.Resampling
}{
	Nearest:  {"nearest", gift.NearestNeighborResampling},
	Bilinear: {"bilinear", gift.LinearResampling},
	Cubic:    {"cubic", gift.CubicResampling},
	Lanczos:  {"lanczos", gift.LanczosResampling},
}

func (f Filter) String() string {
	if int(f) < len(filters) && f >= 0 {
		return filters[f].name
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter returns the Filter named s.
func ParseFilter(s string) (Filter, error) {
	for i, f := range filters {
		if strings.EqualFold(s, f.name) {
			return Filter(i), nil
		}
	}
	return 0, fmt.Errorf("preview: unknown filter %q", s)
}

func (f Filter) resampler() gift.Resampling {
	if int(f) < len(filters) && f >= 0 {
		return filters[f].resampler
	}
	return gift.NearestNeighborResampling
}

// Scale returns m resampled to exactly width by height pixels. If either
// is zero it is derived from the other keeping the aspect ratio.
func Scale(m image.Image, width, height int, f Filter) (*image.NRGBA, error) {
	if m.Bounds().Empty() {
		return nil, errEmpty
	}
	if width <= 0 && height <= 0 {
		return nil, errors.New("preview: no size given")
	}

	g := gift.New(gift.Resize(width, height, f.resampler()))
	dst := image.NewNRGBA(g.Bounds(m.Bounds()))
	g.Draw(dst, m)

	return dst, nil
}

// Fit returns m resampled to the largest size that fits within width by
// height pixels keeping its aspect ratio. Small images are scaled up.
func Fit(m image.Image, width, height int, f Filter) (*image.NRGBA, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, errEmpty
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("preview: no size given")
	}

	scale := math.Min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	w := int(math.Max(1, math.Round(float64(b.Dx())*scale)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*scale)))

	return Scale(m, w, h, f)
}
