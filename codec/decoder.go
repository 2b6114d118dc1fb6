package codec

import (
	"io"
	"io/ioutil"
	"strings"
)

type decoder struct {
	opts *options

	text string
	body int // Offset of the entry stream in text
	line int // Line number the entry stream starts on

	lines []*lexer
}

func (d *decoder) split() string {
	i := strings.IndexByte(d.text, metadataEnd)
	if i < 0 {
		d.body, d.line = 0, 1
		return ""
	}
	d.body = i + 1
	d.line = strings.Count(d.text[:d.body], string(rowSeparator)) + 1
	return strings.TrimPrefix(d.text[:i], string(metadataStart))
}

func (d *decoder) decode() (*Result, error) {
	r := new(Result)
	r.Metadata = d.split()

	type span struct {
		start, end int
	}
	var spans []span
	for start := d.body; start <= len(d.text); {
		end := strings.IndexByte(d.text[start:], rowSeparator)
		if end < 0 {
			spans = append(spans, span{start, len(d.text)})
			break
		}
		spans = append(spans, span{start, start + end})
		start += end + 1
	}

	// Lines are lexed concurrently but each result lands in its own slot
	// so joining them below restores document order.
	d.lines = make([]*lexer, len(spans))
	parallel(len(spans), d.opts.workers, func(i int) {
		s := spans[i]
		d.lines[i] = lexLine(d.text[s.start:s.end], s.start, d.line+i)
	})

	n := 0
	for _, l := range d.lines {
		n += len(l.entries)
	}
	r.Entries = make([]Entry, 0, n)
	for _, l := range d.lines {
		for _, e := range l.entries {
			e.Index = len(r.Entries)
			r.Entries = append(r.Entries, e)
		}
		r.Diagnostics = append(r.Diagnostics, l.diagnostics...)
	}

	if d.opts.strict && len(r.Diagnostics) > 0 {
		return nil, &SyntaxError{r.Diagnostics[0]}
	}

	return r, nil
}

// DecodeString decodes a SITF document held in s.
func DecodeString(s string, opts ...Option) (*Result, error) {
	d := decoder{
		opts: newOptions(opts),
		text: s,
	}
	return d.decode()
}

// Decode reads a SITF document from r. Entries are returned in document
// order along with any diagnostics. Unless the Strict option is used the
// only errors returned are those from reading r.
func Decode(r io.Reader, opts ...Option) (*Result, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeString(string(b), opts...)
}
