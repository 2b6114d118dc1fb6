package codec

// Materialize resolves entries into a dense grid. The grid is as wide as the
// largest x and as tall as the largest y of any entry. Entries are applied
// in the order given so a later entry overwrites an earlier one. Entries
// with an empty range or a zero coordinate are ignored and any pixel not
// covered by an entry is fully transparent black. No entries gives an empty
// grid.
func Materialize(entries []Entry, opts ...Option) (*Grid, error) {
	o := newOptions(opts)

	var width, height uint64
	for _, e := range entries {
		if e.Start == 0 || e.Y == 0 || e.End < e.Start {
			continue
		}
		if uint64(e.End) > width {
			width = uint64(e.End)
		}
		if uint64(e.Y) > height {
			height = uint64(e.Y)
		}
	}
	if width*height > uint64(o.maxPixels) {
		return nil, ErrTooLarge
	}

	g := NewGrid(int(width), int(height))
	for _, e := range entries {
		if e.Start == 0 || e.Y == 0 || e.End < e.Start {
			continue
		}
		p := e.Pixel()
		row := g.Row(int(e.Y) - 1)
		for x := e.Start - 1; x < e.End; x++ {
			row[x] = p
		}
	}

	return g, nil
}
