package codec

import (
	"bufio"
	"image"
	"io"
	"strings"
)

type encoder struct {
	w    *bufio.Writer
	opts *options
}

// encodeRow returns the entries for row y, collapsing horizontal runs of
// identical pixels into a single range entry.
func encodeRow(b []byte, row []Pixel, y int) []byte {
	for x := 0; x < len(row); {
		p := row[x]

		end := x
		for end+1 < len(row) && row[end+1].same(p) {
			end++
		}

		if x > 0 {
			b = append(b, entrySep)
		}
		e := Entry{
			Start: uint32(x + 1),
			End:   uint32(end + 1),
			Y:     uint32(y + 1),
			Alpha: alphaToken(p.A),
			Color: colorToken(p.R, p.G, p.B),
		}
		b = e.appendText(b)

		x = end + 1
	}
	return b
}

func (e *encoder) encode(g *Grid, metadata string) error {
	// Every row only depends on its own pixels so they can be encoded in
	// any order, they are written out by index.
	rows := make([][]byte, g.Height)
	parallel(g.Height, e.opts.workers, func(y int) {
		rows[y] = encodeRow(nil, g.Row(y), y)
	})

	e.w.WriteByte(metadataStart)
	e.w.WriteString(metadata)
	e.w.WriteByte(metadataEnd)
	e.w.WriteByte(rowSeparator)
	for _, row := range rows {
		e.w.Write(row)
		e.w.WriteByte(rowSeparator)
	}

	return e.w.Flush()
}

// Encode writes the grid g to w in SITF format with the given metadata.
func Encode(w io.Writer, g *Grid, metadata string, opts ...Option) error {
	if strings.IndexByte(metadata, metadataEnd) >= 0 {
		return ErrMetadata
	}

	e := encoder{
		w:    bufio.NewWriter(w),
		opts: newOptions(opts),
	}

	return e.encode(g, metadata)
}

// EncodeToString returns the grid g encoded in SITF format.
func EncodeToString(g *Grid, metadata string, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Encode(&b, g, metadata, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EncodeImage writes the Image m to w in SITF format.
func EncodeImage(w io.Writer, m image.Image, metadata string, opts ...Option) error {
	return Encode(w, FromImage(m), metadata, opts...)
}
