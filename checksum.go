package mdx

import (
	"hash/adler32"

	"github.com/c0mm4nd/go-ripemd"
)

// adler32Sum computes the Adler32 checksum of b.
func adler32Sum(b []byte) uint32 {
	return adler32.Checksum(b)
}

// deriveKeyInfoKey computes the 16-byte XOR key used to decrypt an
// encrypted key-info block: RIPEMD128(checksumWord ‖ 0x95,0x36,0x00,0x00).
// checksumWord is the 4-byte Adler32 word stored in the block's 8-byte
// compression header (tag ‖ checksum).
func deriveKeyInfoKey(checksumWord [4]byte) [16]byte {
	seed := make([]byte, 8)
	copy(seed, checksumWord[:])
	seed[4] = 0x95
	seed[5] = 0x36
	// seed[6], seed[7] are already zero.

	h := ripemd.New128()
	h.Write(seed)
	sum := h.Sum(nil)

	var key [16]byte
	copy(key[:], sum)
	return key
}
