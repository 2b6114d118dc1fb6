package codec

import (
	"image"
	"image/color"
	"math"
)

// Pixel is a single grid cell. A is the opacity as a fraction between 0
// and 1.
type Pixel struct {
	R, G, B uint8
	A       float32
}

func alphaFraction(a uint8) float32 {
	return float32(a) / 255
}

func alphaByte(a float32) uint8 {
	switch {
	case a <= 0 || a != a:
		return 0
	case a >= 1:
		return 0xff
	}
	return uint8(math.Round(float64(a) * 255))
}

// NRGBA returns the pixel as a non-alpha-premultiplied color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{p.R, p.G, p.B, alphaByte(p.A)}
}

func (p Pixel) same(q Pixel) bool {
	return p.R == q.R && p.G == q.G && p.B == q.B && math.Float32bits(p.A) == math.Float32bits(q.A)
}

// Grid is a rectangular row-major grid of pixels with the origin in the top
// left corner.
type Grid struct {
	Width, Height int
	Pix           []Pixel
}

// NewGrid returns a grid of the given size with every pixel fully
// transparent black.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
}

// At returns the pixel at (x, y).
func (g *Grid) At(x, y int) Pixel {
	return g.Pix[y*g.Width+x]
}

// Set stores p at (x, y).
func (g *Grid) Set(x, y int, p Pixel) {
	g.Pix[y*g.Width+x] = p
}

// Row returns row y. The returned slice aliases the grid.
func (g *Grid) Row(y int) []Pixel {
	return g.Pix[y*g.Width : (y+1)*g.Width : (y+1)*g.Width]
}

// FromImage copies m into a new grid, moving its top-left corner to (0, 0).
func FromImage(m image.Image) *Grid {
	b := m.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	if nm, ok := m.(*image.NRGBA); ok {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				i := nm.PixOffset(b.Min.X+x, b.Min.Y+y)
				s := nm.Pix[i : i+4 : i+4]
				g.Set(x, y, Pixel{s[0], s[1], s[2], alphaFraction(s[3])})
			}
		}
		return g
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.NRGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Set(x, y, Pixel{c.R, c.G, c.B, alphaFraction(c.A)})
		}
	}
	return g
}

// Image returns the grid as an *image.NRGBA.
func (g *Grid) Image() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, p := range g.Pix {
		c := p.NRGBA()
		copy(m.Pix[i<<2:], []byte{c.R, c.G, c.B, c.A})
	}
	return m
}

// ARGB returns the grid packed as 0xAARRGGBB values, row-major, which is
// what most window surfaces accept.
func (g *Grid) ARGB() []uint32 {
	buf := make([]uint32, len(g.Pix))
	for i, p := range g.Pix {
		buf[i] = uint32(alphaByte(p.A))<<24 | uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
	}
	return buf
}
