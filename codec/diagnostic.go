package codec

import "fmt"

// DiagnosticKind classifies the lenient decisions made while decoding.
type DiagnosticKind int

const (
	// Skip marks text that did not form an entry and was ignored.
	Skip DiagnosticKind = iota
	// Fallback marks a number inside an entry that was replaced with its
	// default value.
	Fallback
)

func (k DiagnosticKind) String() string {
	switch k {
	case Skip:
		return "skip"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Diagnostic records one place where the decoder chose to carry on rather
// than fail.
type Diagnostic struct {
	Kind DiagnosticKind

	// Offset is the byte offset of Text in the document and Line its
	// 1-based line number.
	Offset int
	Line   int

	// Field names the part of the entry a Fallback applies to, one of
	// "x", "x end", "y", "alpha", "numerator" or "denominator".
	Field  string
	Text   string
	Reason string
}

func (d Diagnostic) String() string {
	if d.Kind == Fallback {
		return fmt.Sprintf("line %d: %s %q: %s", d.Line, d.Field, d.Text, d.Reason)
	}
	return fmt.Sprintf("line %d: skipped %q: %s", d.Line, d.Text, d.Reason)
}

// SyntaxError is returned by strict decoding.
type SyntaxError struct {
	Diagnostic
}

func (e *SyntaxError) Error() string {
	return "codec: " + e.Diagnostic.String()
}

// Result is a decoded document together with every lenient decision made
// while decoding it.
type Result struct {
	Document
	Diagnostics []Diagnostic
}

// Skipped returns the number of ignored substrings.
func (r *Result) Skipped() int {
	return r.count(Skip)
}

// Fallbacks returns the number of numbers replaced with defaults.
func (r *Result) Fallbacks() int {
	return r.count(Fallback)
}

func (r *Result) count(k DiagnosticKind) (n int) {
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return
}
