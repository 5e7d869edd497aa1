package mdx

import (
	"encoding/binary"
	"fmt"
	"os"
)

// binReader is a random-access byte reader over the dictionary file.
// It never seeks a shared cursor: every read specifies its own offset
// and length via os.File.ReadAt, so a single binReader can safely back
// concurrent lookups once the dictionary is built.
type binReader struct {
	file *os.File
	size int64
}

func openBinReader(path string) (*binReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mdx: failed to open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mdx: failed to stat %q: %w", path, err)
	}
	return &binReader{file: f, size: info.Size()}, nil
}

func (r *binReader) Close() error {
	return r.file.Close()
}

// readAt reads exactly n bytes starting at offset, failing with
// TruncatedError if the range runs past the end of the file.
func (r *binReader) readAt(offset, n int64) ([]byte, error) {
	if n < 0 || offset < 0 || offset+n > r.size {
		return nil, newTruncated(offset, n, r.size)
	}
	buf := make([]byte, n)
	if _, err := r.file.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("mdx: read at offset %d len %d: %w", offset, n, err)
	}
	return buf, nil
}

func u8(b []byte) uint64 {
	return uint64(b[0])
}

func u16be(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func u32be(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func u64be(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// varBE decodes a big-endian unsigned integer of the given width (4 or
// 8 bytes) from the front of b. All variable-width integer reads in
// this package route through this single function so that a width
// mismatch cannot silently read the wrong number of bytes.
func varBE(b []byte, width int) uint64 {
	switch width {
	case 4:
		return uint64(u32be(b))
	case 8:
		return u64be(b)
	default:
		panic(fmt.Sprintf("mdx: unsupported integer width %d", width))
	}
}
