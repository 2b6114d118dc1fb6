package compress

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

type s2Codec struct{}

func (s2Codec) Type() Type { return S2 }

func (s2Codec) Compress(data []byte) ([]byte, error) {
	return s2.EncodeBetter(nil, data), nil
}

func (s2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}

var errShortLZ4 = errors.New("compress: lz4: truncated block")

var lz4Pool = sync.Pool{
	New: func() interface{} {
		return new(lz4.Compressor)
	},
}

// lz4Codec stores the uncompressed length as a uvarint in front of the
// block so decompression can allocate the exact buffer.
type lz4Codec struct{}

func (lz4Codec) Type() Type { return LZ4 }

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	n := binary.PutUvarint(dst, uint64(len(data)))

	c := lz4Pool.Get().(*lz4.Compressor)
	defer lz4Pool.Put(c)

	m, err := c.CompressBlock(data, dst[n:])
	if err != nil {
		return nil, err
	}
	if m == 0 || m >= len(data) {
		// Incompressible, store as is. A block is only ever shorter than
		// the data so the lengths tell the two apart.
		return append(dst[:n], data...), nil
	}
	return dst[:n+m], nil
}

func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	size, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errShortLZ4
	}
	data = data[n:]
	if uint64(len(data)) == size {
		return append([]byte(nil), data...), nil
	}

	dst := make([]byte, size)
	m, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if uint64(m) != size {
		return nil, errShortLZ4
	}
	return dst, nil
}
