// Compressed snapshots.
//
// A snapshot is a single zstd frame wrapping the compact JSON encoding of
// a tree. Snapshots are for export and backup; the live file is always
// plain pretty-printed text.
package docfile

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder, both safe for concurrent use. Construction is
// expensive so it happens once.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

func compress(data []byte) []byte {
	return zstdEncoder.EncodeAll(data, nil)
}

func decompress(data []byte) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrSnapshot, err)
	}
	return out, nil
}

// WriteSnapshot writes a compressed snapshot of t to w.
func (t *Tree) WriteSnapshot(w io.Writer) error {
	raw, err := JSONCodec{}.Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(compress(raw))
	return err
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	t, err := JSONCodec{}.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	return t, nil
}
