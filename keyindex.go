package mdx

import "bytes"

// keyIndex is the parsed key-block-info table: one entry per key
// block with ordering metadata and size accumulators, plus the file
// offset where key block bodies begin. Individual key blocks are
// decompressed lazily by Dictionary on lookup/suggest/keys, not during
// BuildIndex — spec.md's data flow reaches "ready" once both info
// tables are parsed, before any block body is touched.
type keyIndex struct {
	blockInfos      []KeyBlockInfoEntry
	blockEntryCount []int64 // per-block entry_count field, for invariant 4
	entriesNum      int64
	dataStartOffset int64
}

// keyBlockMeta is the fixed-width header immediately following the
// dictionary header: counts and sizes for the key-block-info table and
// the key-block data that follows it.
type keyBlockMeta struct {
	keyBlockNum                int64
	entriesNum                 int64
	keyBlockInfoDecompressSize int64 // -1 when not present (version < 2.0)
	keyBlockInfoCompressedSize int64
	keyBlockDataTotalSize      int64
}

func readKeyBlockMeta(r *binReader, params *DictParams, offset int64) (*keyBlockMeta, int64, error) {
	nw := params.NumberWidth
	headerLen := int64(4 * nw)
	if params.Version >= 2.0 {
		headerLen = int64(5*nw) + 4
	}

	buf, err := r.readAt(offset, headerLen)
	if err != nil {
		return nil, 0, err
	}

	pos := 0
	next := func() int64 {
		v := int64(varBE(buf[pos:pos+nw], nw))
		pos += nw
		return v
	}

	meta := &keyBlockMeta{keyBlockInfoDecompressSize: -1}
	meta.keyBlockNum = next()
	meta.entriesNum = next()
	if params.Version >= 2.0 {
		meta.keyBlockInfoDecompressSize = next()
	}
	meta.keyBlockInfoCompressedSize = next()
	meta.keyBlockDataTotalSize = next()

	if params.Version >= 2.0 {
		// invariant 7: trailing Adler32 over the 40 header bytes.
		expected := u32be(buf[pos : pos+4])
		actual := adler32Sum(buf[0:40])
		if actual != expected {
			return nil, 0, newCorruptFormat("key block header adler32 mismatch: expected %d, computed %d", expected, actual)
		}
	}

	return meta, offset + headerLen, nil
}

// decodeKeyBlockInfoBlob optionally decrypts (key-info encryption) and
// then decompresses the key-block-info table blob.
func decodeKeyBlockInfoBlob(buf []byte, params *DictParams, expectedDecompressedSize int64) ([]byte, error) {
	if len(buf) < 8 {
		return nil, newCorruptFormat("key block info blob shorter than 8-byte header (%d bytes)", len(buf))
	}

	work := buf
	if params.keyInfoEncrypted() {
		var checksumWord [4]byte
		copy(checksumWord[:], buf[4:8])
		plainTail := decryptKeyInfo(buf[8:], checksumWord)
		work = make([]byte, 0, len(buf))
		work = append(work, buf[0:8]...)
		work = append(work, plainTail...)
	}

	return decompressBlock(-1, work, expectedDecompressedSize)
}

// parseKeyBlockInfoEntries decodes the decompressed key-block-info
// stream into one KeyBlockInfoEntry (and its entry_count) per block,
// checking invariant 6 (adjacent blocks' key ranges are non-decreasing)
// on the raw encoded bytes, per spec's byte-lexicographic collation.
func parseKeyBlockInfoEntries(data []byte, params *DictParams, numBlocks int64) ([]KeyBlockInfoEntry, []int64, error) {
	entries := make([]KeyBlockInfoEntry, 0, numBlocks)
	entryCounts := make([]int64, 0, numBlocks)

	byteWidth := 1
	textTerm := int64(0)
	if params.Version >= 2.0 {
		byteWidth = 2
		textTerm = 1
	}

	charWidth := 1
	if params.Encoding == EncodingUTF16LE || params.Format == FormatMDD {
		charWidth = 2
	}

	var prevLastKeyRaw []byte
	pos := 0
	nw := params.NumberWidth

	readKeySizeField := func() int64 {
		if params.Version >= 2.0 {
			v := int64(u16be(data[pos : pos+byteWidth]))
			pos += byteWidth
			return v
		}
		v := int64(u8(data[pos : pos+byteWidth]))
		pos += byteWidth
		return v
	}

	readKeyField := func(charCount int64) ([]byte, string, error) {
		// charCount excludes the trailing NUL terminator; textTerm (1
		// for version >= 2.0, else 0) accounts for it separately.
		byteLen := (charCount + textTerm) * int64(charWidth)
		termLen := textTerm * int64(charWidth)
		raw := data[pos : pos+int(byteLen)-int(termLen)]
		pos += int(byteLen)
		decoded, err := decodeText(raw, params.Encoding)
		return raw, decoded, err
	}

	for i := int64(0); i < numBlocks; i++ {
		entryCount := int64(varBE(data[pos:pos+nw], nw))
		pos += nw

		firstKeySize := readKeySizeField()
		firstRaw, firstKey, err := readKeyField(firstKeySize)
		if err != nil {
			return nil, nil, newCorruptFormat("key block %d first key decode: %v", i, err)
		}

		lastKeySize := readKeySizeField()
		lastRaw, lastKey, err := readKeyField(lastKeySize)
		if err != nil {
			return nil, nil, newCorruptFormat("key block %d last key decode: %v", i, err)
		}

		compSize := int64(varBE(data[pos:pos+nw], nw))
		pos += nw
		decompSize := int64(varBE(data[pos:pos+nw], nw))
		pos += nw

		if prevLastKeyRaw != nil && bytes.Compare(firstRaw, prevLastKeyRaw) < 0 {
			return nil, nil, newCorruptFormat("key block %d first key precedes previous block's last key", i)
		}
		prevLastKeyRaw = lastRaw

		entries = append(entries, KeyBlockInfoEntry{
			FirstKey:         firstKey,
			LastKey:          lastKey,
			CompressedSize:   compSize,
			DecompressedSize: decompSize,
		})
		entryCounts = append(entryCounts, entryCount)
	}

	var compAccu, decompAccu int64
	for i := range entries {
		entries[i].CompressedAccumulator = compAccu
		entries[i].DecompressedAccumulator = decompAccu
		compAccu += entries[i].CompressedSize
		decompAccu += entries[i].DecompressedSize
	}

	return entries, entryCounts, nil
}

// splitKeyBlock decodes one decompressed key block into its KeyEntry
// sequence: repeating (record-offset, NUL-terminated key text) pairs.
// It checks invariant 5 (non-decreasing record offsets within a block)
// as it scans, since this is a per-block property only knowable once
// the block is actually decompressed.
func splitKeyBlock(block []byte, params *DictParams, blockIndex int) ([]KeyEntry, error) {
	nw := params.NumberWidth
	charWidth := 1
	if params.Encoding == EncodingUTF16LE || params.Format == FormatMDD {
		charWidth = 2
	}
	textEncoding := keyTextEncoding(params)

	var out []KeyEntry
	pos := 0

	for pos < len(block) {
		if pos+nw > len(block) {
			return nil, newCorruptBlock(blockIndex, "truncated record offset at byte %d", pos)
		}
		recordOffset := int64(varBE(block[pos:pos+nw], nw))
		pos += nw

		termStart := pos
		for termStart < len(block) {
			if charWidth == 1 && block[termStart] == 0 {
				break
			}
			if charWidth == 2 && termStart+1 < len(block) && block[termStart] == 0 && block[termStart+1] == 0 {
				break
			}
			termStart += charWidth
		}
		if termStart > len(block) {
			termStart = len(block)
		}

		raw := block[pos:termStart]
		text, err := decodeText(raw, textEncoding)
		if err != nil {
			return nil, newCorruptBlock(blockIndex, "key text decode at byte %d: %v", pos, err)
		}

		if len(out) > 0 && recordOffset < out[len(out)-1].RecordOffset {
			return nil, newCorruptBlock(blockIndex, "record offset decreases within block (%d < %d)", recordOffset, out[len(out)-1].RecordOffset)
		}

		out = append(out, KeyEntry{Key: text, RecordOffset: recordOffset, BlockIndex: blockIndex})
		pos = termStart + charWidth
	}

	return out, nil
}

// keyTextEncoding returns the encoding used to decode key text: MDD
// paths are always UTF-16LE regardless of the declared Encoding.
func keyTextEncoding(params *DictParams) Encoding {
	if params.Format == FormatMDD {
		return EncodingUTF16LE
	}
	return params.Encoding
}

// buildKeyIndex parses the key-block-info table (but not the key
// blocks themselves) and returns the keyIndex plus the file offset
// immediately after the key block data, where the record index begins.
func buildKeyIndex(r *binReader, params *DictParams, startOffset int64) (*keyIndex, int64, error) {
	meta, infoStart, err := readKeyBlockMeta(r, params, startOffset)
	if err != nil {
		return nil, 0, err
	}

	infoBuf, err := r.readAt(infoStart, meta.keyBlockInfoCompressedSize)
	if err != nil {
		return nil, 0, err
	}

	decompressed, err := decodeKeyBlockInfoBlob(infoBuf, params, meta.keyBlockInfoDecompressSize)
	if err != nil {
		return nil, 0, err
	}

	blockInfos, entryCounts, err := parseKeyBlockInfoEntries(decompressed, params, meta.keyBlockNum)
	if err != nil {
		return nil, 0, err
	}

	var keyBlockSize int64
	var totalEntries int64
	for i, bi := range blockInfos {
		keyBlockSize += bi.CompressedSize
		totalEntries += entryCounts[i]
	}
	if keyBlockSize != meta.keyBlockDataTotalSize {
		return nil, 0, newCorruptFormat("key block compressed size total mismatch: expected %d, computed %d", meta.keyBlockDataTotalSize, keyBlockSize)
	}
	if totalEntries != meta.entriesNum {
		return nil, 0, newCorruptFormat("key block entry count total mismatch: expected %d, computed %d", meta.entriesNum, totalEntries)
	}

	dataStart := infoStart + meta.keyBlockInfoCompressedSize

	idx := &keyIndex{
		blockInfos:      blockInfos,
		blockEntryCount: entryCounts,
		entriesNum:      meta.entriesNum,
		dataStartOffset: dataStart,
	}

	return idx, dataStart + meta.keyBlockDataTotalSize, nil
}

// findBlock binary-searches the key-block-info table for the block
// that may contain word, per spec.md §4.4: the equal word must land in
// the first block whose LastKey >= word.
func (ki *keyIndex) findBlock(word string) (int, bool) {
	lo, hi := 0, len(ki.blockInfos)
	for lo < hi {
		mid := (lo + hi) / 2
		if ki.blockInfos[mid].LastKey >= word {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo >= len(ki.blockInfos) {
		return 0, false
	}
	return lo, true
}

// decodeBlock decompresses key block i on demand.
func (ki *keyIndex) decodeBlock(r *binReader, params *DictParams, i int) ([]byte, error) {
	bi := ki.blockInfos[i]
	buf, err := r.readAt(ki.dataStartOffset+bi.CompressedAccumulator, bi.CompressedSize)
	if err != nil {
		return nil, err
	}
	return decompressBlock(i, buf, bi.DecompressedSize)
}
