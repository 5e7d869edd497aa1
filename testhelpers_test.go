package mdx

import (
	"encoding/binary"
	"hash/adler32"
	"os"
	"path/filepath"
	"testing"
)

func skipIfNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("skipping: test data file missing: %s", path)
	}
}

// asciiToUTF16LE encodes pure-ASCII text as UTF-16LE, which for ASCII
// input is just every byte followed by a zero byte.
func asciiToUTF16LE(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0)
	}
	return out
}

// rawBlock wraps body in the 8-byte tag+checksum header decompressBlock expects.
func rawBlock(body []byte) []byte {
	out := make([]byte, 8+len(body))
	out[0] = compressionRaw
	binary.BigEndian.PutUint32(out[4:8], adler32.Checksum(body))
	copy(out[8:], body)
	return out
}

func beN(v int64, width int) []byte {
	out := make([]byte, width)
	switch width {
	case 2:
		binary.BigEndian.PutUint16(out, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(out, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(out, uint64(v))
	default:
		panic("beN: unsupported width")
	}
	return out
}

// buildFixture assembles a minimal, version-2.0, unencrypted, UTF-8
// MDX (or MDD, when asMDD is true) file with a single key block
// holding the given (key, recordText) pairs in sorted order, and a
// single record block holding their concatenated definitions. It
// returns the path to the file it wrote under t.TempDir().
func buildFixture(t *testing.T, asMDD bool, pairs [][2]string) string {
	t.Helper()
	return buildFixtureRaw(t, asMDD, pairs, int64(len(pairs)))
}

// buildFixtureRaw is buildFixture with an explicit record-block
// entries_num, letting tests construct a file whose record entries_num
// disagrees with its key entries_num.
func buildFixtureRaw(t *testing.T, asMDD bool, pairs [][2]string, recordEntriesNum int64) string {
	t.Helper()

	encoding := "Encoding=\"\""
	if asMDD {
		encoding = "Encoding=\"UTF-16\""
	}
	xml := "<Dictionary GeneratedByEngineVersion=\"2.0\" Encrypted=\"No\" " +
		encoding + " Title=\"Test\" Description=\"Test dict\" CreationDate=\"2020-01-01\"/>\r\n"
	xmlUTF16 := asciiToUTF16LE(xml + "\x00")
	checksum := adler32.Checksum(xmlUTF16)

	var file []byte
	file = append(file, beN(int64(len(xmlUTF16)), 4)...)
	file = append(file, xmlUTF16...)
	checksumLE := make([]byte, 4)
	binary.LittleEndian.PutUint32(checksumLE, checksum)
	file = append(file, checksumLE...)

	// Record stream and per-key record offsets.
	var recordStream []byte
	offsets := make([]int64, len(pairs))
	for i, p := range pairs {
		offsets[i] = int64(len(recordStream))
		recordStream = append(recordStream, []byte(p[1])...)
	}

	charWidth := 1
	if asMDD {
		charWidth = 2
	}
	encodeKey := func(s string) []byte {
		if charWidth == 1 {
			return append([]byte(s), 0)
		}
		return append(asciiToUTF16LE(s), 0, 0)
	}

	var keyBlockBody []byte
	for i, p := range pairs {
		keyBlockBody = append(keyBlockBody, beN(offsets[i], 8)...)
		keyBlockBody = append(keyBlockBody, encodeKey(p[0])...)
	}
	keyBlockWrapped := rawBlock(keyBlockBody)

	firstKey, lastKey := pairs[0][0], pairs[len(pairs)-1][0]
	keyLen := func(s string) int64 {
		if charWidth == 1 {
			return int64(len(s))
		}
		return int64(len([]rune(s)))
	}

	encodeKeyText := func(s string) []byte {
		if charWidth == 1 {
			return []byte(s)
		}
		return asciiToUTF16LE(s)
	}
	textTerm := make([]byte, charWidth)

	var keyBlockInfoPlain []byte
	keyBlockInfoPlain = append(keyBlockInfoPlain, beN(int64(len(pairs)), 8)...) // entry_count
	keyBlockInfoPlain = append(keyBlockInfoPlain, beN(keyLen(firstKey), 2)...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, encodeKeyText(firstKey)...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, textTerm...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, beN(keyLen(lastKey), 2)...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, encodeKeyText(lastKey)...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, textTerm...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, beN(int64(len(keyBlockWrapped)), 8)...)
	keyBlockInfoPlain = append(keyBlockInfoPlain, beN(int64(len(keyBlockBody)), 8)...)
	keyBlockInfoWrapped := rawBlock(keyBlockInfoPlain)

	var keyMetaHeader []byte
	keyMetaHeader = append(keyMetaHeader, beN(1, 8)...)                              // keyBlockNum
	keyMetaHeader = append(keyMetaHeader, beN(int64(len(pairs)), 8)...)              // entriesNum
	keyMetaHeader = append(keyMetaHeader, beN(int64(len(keyBlockInfoPlain)), 8)...)  // infoDecompressSize
	keyMetaHeader = append(keyMetaHeader, beN(int64(len(keyBlockInfoWrapped)), 8)...) // infoCompressedSize
	keyMetaHeader = append(keyMetaHeader, beN(int64(len(keyBlockWrapped)), 8)...)     // dataTotalSize
	keyMetaChecksum := make([]byte, 4)
	binary.BigEndian.PutUint32(keyMetaChecksum, adler32.Checksum(keyMetaHeader[:40]))
	keyMetaHeader = append(keyMetaHeader, keyMetaChecksum...)

	file = append(file, keyMetaHeader...)
	file = append(file, keyBlockInfoWrapped...)
	file = append(file, keyBlockWrapped...)

	recordBlockWrapped := rawBlock(recordStream)
	var recMetaHeader []byte
	recMetaHeader = append(recMetaHeader, beN(1, 8)...)                           // recordBlockNum
	recMetaHeader = append(recMetaHeader, beN(recordEntriesNum, 8)...)           // entriesNum
	recMetaHeader = append(recMetaHeader, beN(16, 8)...)                          // infoCompressedSize (1 entry: 2*8 bytes)
	recMetaHeader = append(recMetaHeader, beN(int64(len(recordBlockWrapped)), 8)...) // blockCompressedSize

	var recInfo []byte
	recInfo = append(recInfo, beN(int64(len(recordBlockWrapped)), 8)...)
	recInfo = append(recInfo, beN(int64(len(recordStream)), 8)...)

	file = append(file, recMetaHeader...)
	file = append(file, recInfo...)
	file = append(file, recordBlockWrapped...)

	ext := ".mdx"
	if asMDD {
		ext = ".mdd"
	}
	path := filepath.Join(t.TempDir(), "fixture"+ext)
	if err := os.WriteFile(path, file, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
