package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{0xff, 0, 0, 0xff}
	blue = color.NRGBA{0, 0, 0xff, 0xff}
)

func pair() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	m.SetNRGBA(0, 0, red)
	m.SetNRGBA(1, 0, blue)
	return m
}

func TestScaleNearest(t *testing.T) {
	out, err := Scale(pair(), 8, 4, Nearest)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), out.Bounds())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, red, out.NRGBAAt(x, y))
			assert.Equal(t, blue, out.NRGBAAt(x+4, y))
		}
	}
}

func TestScaleAspect(t *testing.T) {
	out, err := Scale(pair(), 10, 0, Bilinear)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 5), out.Bounds())

	_, err = Scale(pair(), 0, 0, Bilinear)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          image.Rectangle
	}{
		{"up", 10, 10, image.Rect(0, 0, 10, 5)},
		{"tall", 4, 100, image.Rect(0, 0, 4, 2)},
		{"down", 1, 1, image.Rect(0, 0, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Fit(pair(), tt.width, tt.height, Cubic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Bounds())
		})
	}
}

func TestEmpty(t *testing.T) {
	_, err := Scale(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 4, 4, Nearest)
	assert.Equal(t, errEmpty, err)

	_, err = Fit(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 4, 4, Nearest)
	assert.Equal(t, errEmpty, err)
}

func TestParseFilter(t *testing.T) {
	for _, f := range []Filter{Nearest, Bilinear, Cubic, Lanczos} {
		got, err := ParseFilter(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFilter("box")
	assert.Error(t, err)
}
