/*
Package compress implements the compression schemes used to store SITF
documents.

SITF is plain text with a lot of repetition between rows so even the fast
schemes shrink it considerably. Every scheme is identified by a Type which is
stored alongside the compressed data.
*/
package compress

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies a compression scheme.
type Type uint8

// Compression schemes
const (
	None Type = iota + 1
	Zstd
	S2
	LZ4
)

var errUnknown = errors.New("compress: unknown compression type")

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{None, Zstd, S2, LZ4} {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknown, s)
}

// Codec compresses and decompresses data. Implementations are safe for
// concurrent use.
type Codec interface {
	Type() Type
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// New returns the Codec for t.
func New(t Type) (Codec, error) {
	switch t {
	case None:
		return noneCodec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	case S2:
		return s2Codec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknown, uint8(t))
	}
}

type noneCodec struct{}

func (noneCodec) Type() Type { return None }

func (noneCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (noneCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
