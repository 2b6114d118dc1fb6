package codec

import (
	"math"
	"strconv"
	"strings"
)

// lexer finds entries in one line of the entry stream. It behaves like an
// unanchored search: at each offset it tries to match a whole entry, on
// success it continues after the match and otherwise it moves on by a
// single byte.
type lexer struct {
	input  string
	base   int // Offset of input in the document
	line   int
	offset int // Offset of the entry being lexed

	entries     []Entry
	diagnostics []Diagnostic
}

func lexLine(input string, base, line int) *lexer {
	l := &lexer{
		input: input,
		base:  base,
		line:  line,
	}
	l.run()
	return l
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func digits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func (l *lexer) run() {
	skip := -1
	for pos := 0; pos < len(l.input); {
		if m, ok := l.matchAt(pos); ok {
			if skip >= 0 {
				l.skipped(skip, pos)
				skip = -1
			}
			l.offset = pos
			l.entry(m)
			pos += m.length
			continue
		}
		if skip < 0 {
			skip = pos
		}
		pos++
	}
	if skip >= 0 {
		l.skipped(skip, len(l.input))
	}
}

const separators = ", \t\r"

// skipped records input[start:end] as skipped unless it only separates
// entries.
func (l *lexer) skipped(start, end int) {
	text := strings.TrimLeft(l.input[start:end], separators)
	start = end - len(text)
	text = strings.TrimRight(text, separators)
	if text == "" {
		return
	}
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Kind:   Skip,
		Offset: l.base + start,
		Line:   l.line,
		Text:   text,
		Reason: "not a valid entry",
	})
}

func (l *lexer) fallback(field, text, reason string) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Kind:   Fallback,
		Offset: l.base + l.offset,
		Line:   l.line,
		Field:  field,
		Text:   text,
		Reason: reason,
	})
}

// coordinate parses a 1-based position, falling back to def if the text is
// not a number between 1 and 1<<32-1.
func (l *lexer) coordinate(field, text string, def uint32) uint32 {
	n, err := strconv.ParseUint(text, 10, 32)
	switch {
	case err != nil:
		l.fallback(field, text, "out of range, using "+strconv.FormatUint(uint64(def), 10))
		return def
	case n == 0:
		l.fallback(field, text, "positions start at 1, using "+strconv.FormatUint(uint64(def), 10))
		return def
	}
	return uint32(n)
}

// match holds the text of each part of an entry.
type match struct {
	x, end, y string
	sign      byte
	alpha     string
	color     string
	length    int
}

// matchAt tries to match a whole entry at the start of s[i:].
func (l *lexer) matchAt(i int) (m match, ok bool) {
	s := l.input

	// x or x-x
	j := digits(s, i)
	if j == i {
		return
	}
	m.x = s[i:j]
	if j < len(s) && s[j] == '-' {
		k := digits(s, j+1)
		if k == j+1 {
			return
		}
		m.end, j = s[j+1:k], k
	}
	if j >= len(s) || s[j] != ':' {
		return
	}

	// y
	k := digits(s, j+1)
	if k == j+1 {
		return
	}
	m.y, j = s[j+1:k], k

	// transparency
	if j >= len(s) || s[j] != opaque && s[j] != transparent {
		return
	}
	m.sign = s[j]
	k = digits(s, j+1)
	m.alpha, j = s[j+1:k], k

	// color
	n, ok := colorLength(s, j)
	if !ok {
		return
	}
	m.color = s[j : j+n]
	m.length = j + n - i

	return m, true
}

// entry interprets the numbers of a matched entry and appends it.
func (l *lexer) entry(m match) {
	e := Entry{}
	e.Start = l.coordinate("x", m.x, 1)
	e.End = e.Start
	if m.end != "" {
		e.End = l.coordinate("x end", m.end, e.Start)
		if e.End < e.Start {
			// An empty range covers no pixels.
			l.fallback("x end", m.end, "range ends before it starts, entry ignored")
			return
		}
	}
	e.Y = l.coordinate("y", m.y, 1)
	e.Alpha = l.alpha(m.sign, m.alpha)
	e.Color = l.color(m.color)

	l.entries = append(l.entries, e)
}

func (l *lexer) alpha(sign byte, text string) AlphaToken {
	if sign == opaque {
		if text != "" {
			l.fallback("alpha", text, "digits after '+' ignored")
		}
		return AlphaToken{Opaque: true}
	}
	if text == "" {
		l.fallback("alpha", text, "missing percentage, using 0")
		return AlphaToken{}
	}
	n, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		l.fallback("alpha", text, "out of range, using 0")
		return AlphaToken{}
	}
	if n > 100 {
		l.fallback("alpha", text, "more than 100 percent, using 100")
		n = 100
	}
	return AlphaToken{Percent: uint8(n)}
}

// colorLength returns the length of the color token at s[i:].
func colorLength(s string, i int) (int, bool) {
	if i >= len(s) {
		return 0, false
	}
	switch s[i] {
	case namedPrefix:
		if i+1 < len(s) {
			if _, ok := NamedColor(s[i+1]); ok {
				return 2, true
			}
		}
	case hexPrefix:
		if i+7 > len(s) {
			return 0, false
		}
		for j := i + 1; j < i+7; j++ {
			if !isHex(s[j]) {
				return 0, false
			}
		}
		return 7, true
	case grayPrefix:
		j := digits(s, i+1)
		if j == i+1 || j >= len(s) || s[j] != '/' {
			return 0, false
		}
		k := digits(s, j+1)
		if k == j+1 {
			return 0, false
		}
		return k - i, true
	}
	return 0, false
}

// color interprets a token already matched by colorLength.
func (l *lexer) color(text string) ColorToken {
	switch text[0] {
	case namedPrefix:
		t, _ := NamedColor(text[1])
		return t
	case hexPrefix:
		v, _ := strconv.ParseUint(text[1:], 16, 32)
		return HexColor(uint8(v>>16), uint8(v>>8), uint8(v))
	}
	numText, denText := text[1:], ""
	if i := strings.IndexByte(numText, '/'); i >= 0 {
		numText, denText = numText[:i], numText[i+1:]
	}
	num, nerr := strconv.ParseUint(numText, 10, 32)
	den, derr := strconv.ParseUint(denText, 10, 32)
	if nerr == nil && derr == nil {
		return GrayColor(uint32(num), uint32(den))
	}

	// The fraction does not fit the token so resolve it at full precision
	// and store the nearest equivalent over GrayDenominator instead.
	t := grayToken(grayValue(numText, denText))
	field, value := "numerator", numText
	if nerr == nil {
		field, value = "denominator", denText
	}
	l.fallback(field, value, "out of range, using "+t.String())
	return t
}

// grayValue resolves the fraction written as the digit strings num and
// den, clamped to [0, 1], to a channel value.
func grayValue(num, den string) uint8 {
	n, _ := strconv.ParseFloat(num, 64)
	d, _ := strconv.ParseFloat(den, 64)
	v := n / d
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(math.Round(v * 0xff))
}
