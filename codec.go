package mdx

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/rasky/go-lzo"
)

const (
	compressionRaw  = 0
	compressionLZO  = 1
	compressionZlib = 2
)

// decompressBlock decompresses a single MDX/MDD block. payload is the
// full block buffer including its 8-byte header (tag ‖ Adler32 of the
// decompressed payload). expectedSize is the declared decompressed
// size used as a hint for LZO and as a sanity check for all codecs.
func decompressBlock(blockID int, payload []byte, expectedSize int64) ([]byte, error) {
	if len(payload) < 8 {
		return nil, newCorruptBlock(blockID, "block shorter than 8-byte header (%d bytes)", len(payload))
	}

	tag := payload[0]
	expectedChecksum := u32be(payload[4:8])
	body := payload[8:]

	var out []byte
	switch tag {
	case compressionRaw:
		out = body
	case compressionLZO:
		reader := bytes.NewReader(body)
		decoded, err := lzo.Decompress1X(reader, 0, int(expectedSize))
		if err != nil {
			return nil, newCorruptBlock(blockID, "LZO1X decompression failed: %v", err)
		}
		out = decoded
	case compressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, newCorruptBlock(blockID, "zlib header invalid: %v", err)
		}
		decoded, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, newCorruptBlock(blockID, "zlib inflate failed: %v", err)
		}
		out = decoded
	default:
		return nil, newCorruptBlock(blockID, "unknown compression tag %d", tag)
	}

	if expectedSize > 0 && int64(len(out)) != expectedSize {
		return nil, newCorruptBlock(blockID, "decompressed size mismatch: expected %d, got %d", expectedSize, len(out))
	}

	actualChecksum := adler32Sum(out)
	if actualChecksum != expectedChecksum {
		return nil, newCorruptBlock(blockID, "adler32 mismatch: expected %d, got %d", expectedChecksum, actualChecksum)
	}

	return out, nil
}

// decryptKeyInfo reverses the salt-XOR scheme used to obscure an
// encrypted key-info block. data is the block payload following the
// 8-byte tag+checksum header; checksumWord is the 4-byte Adler32 word
// from that header, which seeds the RIPEMD128-derived XOR key.
//
// Only the first min(len(data), 0x100) bytes are transformed; the
// remainder of the block (when len(data) > 0x100) passes through
// unchanged, matching the original tool's behavior of only ever
// obscuring the start of the block.
func decryptKeyInfo(data []byte, checksumWord [4]byte) []byte {
	key := deriveKeyInfoKey(checksumWord)

	n := len(data)
	if n > 0x100 {
		n = 0x100
	}

	out := make([]byte, len(data))
	copy(out, data)

	for i := 0; i < n; i++ {
		c := data[i]
		rotated := (c >> 4) | (c << 4)
		out[i] = rotated ^ byte(i&0xff) ^ key[i%16]
	}

	return out
}

func decompressionTagName(tag byte) string {
	switch tag {
	case compressionRaw:
		return "raw"
	case compressionLZO:
		return "lzo1x"
	case compressionZlib:
		return "zlib"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}
