/*
Package codec implements a SITF image decoder and encoder.

SITF is a textual image format. A document starts with a metadata section
enclosed by '$' and '@' which is passed through verbatim, followed by one
line of comma separated entries per row of pixels:

	$metadata@
	1-3:1+!F,4:1-50#1A2B3C
	1:2+%502/1000,2-4:2-100!0

Each entry is an x position or inclusive x range, a ':', a y position, a
transparency token ('+' for opaque or '-' followed by the percentage of
transparency) and a color token. Colors are either one of the named colors
!F, !0, !R, !G and !B, a six digit hex triplet such as #1A2B3C, or a
grayscale fraction such as %502/1000. All positions are 1-based.

Decoding is lenient; text that does not form a valid entry is skipped and
numbers that cannot be represented fall back to defaults. Every such
decision is reported as a Diagnostic and the Strict option turns the first
one into an error instead.
*/
package codec

import (
	"errors"
	"runtime"
)

const (
	metadataStart = '$'
	metadataEnd   = '@'
	rowSeparator  = '\n'
	entrySep      = ','

	opaque      = '+'
	transparent = '-'

	namedPrefix = '!'
	hexPrefix   = '#'
	grayPrefix  = '%'

	// GrayDenominator is the fixed denominator used when encoding
	// grayscale fractions.
	GrayDenominator = 1000

	// DefaultMaxPixels is the largest grid area Materialize will allocate
	// unless overridden with MaxPixels.
	DefaultMaxPixels = 1 << 24
)

var (
	// ErrMetadata is returned when encoding metadata that contains the
	// '@' terminator and so could not be read back.
	ErrMetadata = errors.New("codec: metadata must not contain '@'")

	// ErrTooLarge is returned when a document describes a grid larger than
	// the configured maximum number of pixels.
	ErrTooLarge = errors.New("codec: image is too large")
)

type options struct {
	workers   int
	strict    bool
	maxPixels int
}

// Option configures the encoder, decoder and materializer.
type Option func(*options)

// Workers sets the number of goroutines used to encode rows or lex lines.
// Values less than one select runtime.NumCPU().
func Workers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Strict makes decoding fail on the first skipped substring or numeric
// fallback instead of recording it as a Diagnostic.
func Strict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// MaxPixels limits the area of a materialized grid. Values less than one
// select DefaultMaxPixels.
func MaxPixels(n int) Option {
	return func(o *options) {
		o.maxPixels = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	if o.maxPixels < 1 {
		o.maxPixels = DefaultMaxPixels
	}
	return o
}
