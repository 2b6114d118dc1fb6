package codec

import (
	"math"
	"strconv"
)

// AlphaToken is the transparency part of an entry. Percent is the
// percentage of transparency, not opacity, and is ignored when Opaque is
// set.
type AlphaToken struct {
	Opaque  bool
	Percent uint8
}

func alphaToken(a float32) AlphaToken {
	if a >= 1 {
		return AlphaToken{Opaque: true}
	}
	pct := math.Round(100 * (1 - float64(a)))
	switch {
	case pct < 0 || pct != pct:
		pct = 0
	case pct > 100:
		pct = 100
	}
	return AlphaToken{Percent: uint8(pct)}
}

// Byte returns the alpha channel value the token resolves to.
func (t AlphaToken) Byte() uint8 {
	if t.Opaque {
		return 0xff
	}
	p := uint32(t.Percent)
	if p > 100 {
		p = 100
	}
	return uint8(((100-p)*0xff + 50) / 100)
}

func (t AlphaToken) appendText(b []byte) []byte {
	if t.Opaque {
		return append(b, opaque)
	}
	return strconv.AppendUint(append(b, transparent), uint64(t.Percent), 10)
}

func (t AlphaToken) String() string {
	return string(t.appendText(nil))
}

// ColorKind identifies the form of a color token.
type ColorKind int

// Color token forms
const (
	Named ColorKind = iota
	Hex
	Gray
)

func (k ColorKind) String() string {
	switch k {
	case Named:
		return "named"
	case Hex:
		return "hex"
	case Gray:
		return "gray"
	default:
		return "unknown"
	}
}

var namedColors = [...]struct {
	code    byte
	r, g, b uint8
}{
	{'F', 0xff, 0xff, 0xff},
	{'0', 0x00, 0x00, 0x00},
	{'R', 0xff, 0x00, 0x00},
	{'G', 0x00, 0xff, 0x00},
	{'B', 0x00, 0x00, 0xff},
}

func namedCode(r, g, b uint8) (byte, bool) {
	for _, n := range namedColors {
		if n.r == r && n.g == g && n.b == b {
			return n.code, true
		}
	}
	return 0, false
}

// ColorToken is the color part of an entry. R, G and B always hold the
// resolved color; Num and Den are only meaningful for Gray tokens.
type ColorToken struct {
	Kind     ColorKind
	R, G, B  uint8
	Num, Den uint32
}

// NamedColor returns the token for one of the named color codes F, 0, R, G
// or B.
func NamedColor(code byte) (ColorToken, bool) {
	for _, n := range namedColors {
		if n.code == code {
			return ColorToken{Kind: Named, R: n.r, G: n.g, B: n.b}, true
		}
	}
	return ColorToken{}, false
}

// HexColor returns a hex token for the given color.
func HexColor(r, g, b uint8) ColorToken {
	return ColorToken{Kind: Hex, R: r, G: g, B: b}
}

// GrayColor returns a grayscale token for the fraction num/den. Fractions
// above one are clamped and a zero denominator resolves to white unless the
// numerator is also zero.
func GrayColor(num, den uint32) ColorToken {
	var v uint8
	switch {
	case den == 0:
		if num > 0 {
			v = 0xff
		}
	case num >= den:
		v = 0xff
	default:
		v = uint8((uint64(num)*0xff*2 + uint64(den)) / (uint64(den) * 2))
	}
	return ColorToken{Kind: Gray, R: v, G: v, B: v, Num: num, Den: den}
}

func colorToken(r, g, b uint8) ColorToken {
	if code, ok := namedCode(r, g, b); ok {
		t, _ := NamedColor(code)
		return t
	}
	if r == g && g == b {
		return grayToken(r)
	}
	return HexColor(r, g, b)
}

// grayToken returns the gray token over GrayDenominator that resolves to v.
func grayToken(v uint8) ColorToken {
	num := (uint32(v)*GrayDenominator*2 + 0xff) / (0xff * 2)
	return GrayColor(num, GrayDenominator)
}

const hexDigits = "0123456789ABCDEF"

func (t ColorToken) appendText(b []byte) []byte {
	switch t.Kind {
	case Named:
		code, _ := namedCode(t.R, t.G, t.B)
		return append(b, namedPrefix, code)
	case Gray:
		b = strconv.AppendUint(append(b, grayPrefix), uint64(t.Num), 10)
		return strconv.AppendUint(append(b, '/'), uint64(t.Den), 10)
	default:
		return append(b, hexPrefix,
			hexDigits[t.R>>4], hexDigits[t.R&0x0f],
			hexDigits[t.G>>4], hexDigits[t.G&0x0f],
			hexDigits[t.B>>4], hexDigits[t.B&0x0f])
	}
}

func (t ColorToken) String() string {
	return string(t.appendText(nil))
}

// Entry is a single SITF entry covering the pixels Start through End
// inclusive on row Y. Coordinates are 1-based.
type Entry struct {
	Start, End uint32
	Y          uint32
	Alpha      AlphaToken
	Color      ColorToken

	// Index is the position of the entry in document order.
	Index int
}

// Pixel returns the pixel every position covered by the entry resolves to.
func (e Entry) Pixel() Pixel {
	return Pixel{e.Color.R, e.Color.G, e.Color.B, alphaFraction(e.Alpha.Byte())}
}

func (e Entry) appendText(b []byte) []byte {
	b = strconv.AppendUint(b, uint64(e.Start), 10)
	if e.End > e.Start {
		b = strconv.AppendUint(append(b, '-'), uint64(e.End), 10)
	}
	b = strconv.AppendUint(append(b, ':'), uint64(e.Y), 10)
	return e.Color.appendText(e.Alpha.appendText(b))
}

func (e Entry) String() string {
	return string(e.appendText(nil))
}

// Document is a decoded SITF document.
type Document struct {
	Metadata string
	Entries  []Entry
}

// Grid materializes the entries of the document.
func (d *Document) Grid(opts ...Option) (*Grid, error) {
	return Materialize(d.Entries, opts...)
}

