package mdx

// recordIndex is the parsed record-block-info table: per-block
// compressed/decompressed sizes with prefix-sum accumulators, plus the
// file offset where the record block data itself begins.
type recordIndex struct {
	blockInfos     []RecordBlockInfoEntry
	dataStartOffset int64
	rangeTree       *rangeTreeNode
}

type recordBlockMeta struct {
	recordBlockNum     int64
	entriesNum         int64
	infoCompressedSize int64
	blockCompressedSize int64
}

func readRecordBlockMeta(r *binReader, params *DictParams, offset int64) (*recordBlockMeta, int64, error) {
	nw := params.NumberWidth
	headerLen := int64(4 * nw)

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

	meta := &recordBlockMeta{
		recordBlockNum:      next(),
		entriesNum:          next(),
		infoCompressedSize:  next(),
		blockCompressedSize: next(),
	}

	return meta, offset + headerLen, nil
}

// buildRecordIndex parses the record-block-info table starting at
// offset (immediately after the record block header) and returns the
// recordIndex plus the file offset where record block data begins.
func buildRecordIndex(r *binReader, params *DictParams, meta *recordBlockMeta, infoStart int64) (*recordIndex, error) {
	buf, err := r.readAt(infoStart, meta.infoCompressedSize)
	if err != nil {
		return nil, err
	}

	nw := params.NumberWidth
	blockInfos := make([]RecordBlockInfoEntry, 0, meta.recordBlockNum)
	pos := 0
	var compAccu, decompAccu int64

	for i := int64(0); i < meta.recordBlockNum; i++ {
		if pos+2*nw > len(buf) {
			return nil, newCorruptFormat("record block info table truncated at block %d", i)
		}
		compSize := int64(varBE(buf[pos:pos+nw], nw))
		pos += nw
		decompSize := int64(varBE(buf[pos:pos+nw], nw))
		pos += nw

		blockInfos = append(blockInfos, RecordBlockInfoEntry{
			CompressedSize:          compSize,
			DecompressedSize:        decompSize,
			CompressedAccumulator:   compAccu,
			DecompressedAccumulator: decompAccu,
		})

		compAccu += compSize
		decompAccu += decompSize
	}

	if int64(pos) != meta.infoCompressedSize {
		return nil, newCorruptFormat("record block info table size mismatch: expected %d, consumed %d", meta.infoCompressedSize, pos)
	}
	if compAccu != meta.blockCompressedSize {
		return nil, newCorruptFormat("record block compressed size total mismatch: expected %d, computed %d", meta.blockCompressedSize, compAccu)
	}

	idx := &recordIndex{
		blockInfos:      blockInfos,
		dataStartOffset: infoStart + meta.infoCompressedSize,
	}
	idx.rangeTree = buildRangeTree(blockInfos)

	return idx, nil
}

// findBlock returns the index of the record block whose decompressed
// range contains recordOffset, using the range tree and then a linear
// scan of blockInfos as a fallback. Both use the same half-open range
// test, so a zero-length block owns no offset under either.
func (ri *recordIndex) findBlock(recordOffset int64) (int, bool) {
	if idx, ok := queryRangeTree(ri.rangeTree, recordOffset); ok {
		return idx, true
	}
	for i, bi := range ri.blockInfos {
		if recordOffset >= bi.DecompressedAccumulator && recordOffset < bi.DecompressedAccumulator+bi.DecompressedSize {
			return i, true
		}
	}
	return 0, false
}
