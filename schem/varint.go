package schem

import (
	"errors"
	"fmt"
	"io"
)

// maxBlockIndexBytes bounds the encoded length of a single palette
// index. Realistic palettes never come close to values this large;
// longer runs indicate a corrupted stream.
const maxBlockIndexBytes = 5

// ErrVarintOverflow is returned when a palette index varint exceeds
// maxBlockIndexBytes.
var ErrVarintOverflow = errors.New("block index varint too long")

// appendBlockIndex appends the unsigned little-endian base-128 encoding
// of a palette index: 7 data bits per byte, high bit set on every byte
// but the last.
func appendBlockIndex(data []byte, v int) []byte {
	for v&^0x7F != 0 {
		data = append(data, byte(v&0x7F|0x80))
		v = int(uint(v) >> 7)
	}
	return append(data, byte(v))
}

// readBlockIndex decodes one palette index from data starting at off,
// returning the value and the number of bytes consumed.
func readBlockIndex(data []byte, off int) (v, n int, err error) {
	for {
		if off+n >= len(data) {
			return 0, 0, fmt.Errorf("block index at byte offset %d: %w", off, io.ErrUnexpectedEOF)
		}
		b := data[off+n]
		v |= int(b&0x7F) << (7 * n)
		n++
		if n > maxBlockIndexBytes {
			return 0, 0, fmt.Errorf("%w: at byte offset %d", ErrVarintOverflow, off)
		}
		if b&0x80 == 0 {
			return v, n, nil
		}
	}
}
