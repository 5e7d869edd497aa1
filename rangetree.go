package mdx

// rangeTreeNode is a node of the balanced range tree built over record
// blocks' decompressed-offset ranges, letting findBlock resolve a
// record offset to its owning block in O(log n) instead of scanning
// the full record-block-info table.
type rangeTreeNode struct {
	startRange int64
	endRange   int64
	index      int // index into the owning recordIndex.blockInfos, or -1 for an internal node
	left       *rangeTreeNode
	right      *rangeTreeNode
}

// buildRangeTree constructs a range tree over blocks' decompressed
// accumulator ranges. Returns nil for an empty list.
func buildRangeTree(blocks []RecordBlockInfoEntry) *rangeTreeNode {
	if len(blocks) == 0 {
		return nil
	}
	return buildRangeTreeRange(blocks, 0, len(blocks))
}

func buildRangeTreeRange(blocks []RecordBlockInfoEntry, lo, hi int) *rangeTreeNode {
	node := &rangeTreeNode{index: -1}
	node.startRange = blocks[lo].DecompressedAccumulator
	node.endRange = blocks[hi-1].DecompressedAccumulator + blocks[hi-1].DecompressedSize

	if hi-lo == 1 {
		node.index = lo
		return node
	}

	mid := lo + (hi-lo)/2
	node.left = buildRangeTreeRange(blocks, lo, mid)
	node.right = buildRangeTreeRange(blocks, mid, hi)
	return node
}

// queryRangeTree finds the block index whose decompressed range
// contains offset.
func queryRangeTree(root *rangeTreeNode, offset int64) (int, bool) {
	if root == nil {
		return 0, false
	}
	if offset < root.startRange || offset >= root.endRange {
		return 0, false
	}
	if root.index >= 0 {
		return root.index, true
	}
	if root.left != nil {
		if idx, ok := queryRangeTree(root.left, offset); ok {
			return idx, true
		}
	}
	if root.right != nil {
		if idx, ok := queryRangeTree(root.right, offset); ok {
			return idx, true
		}
	}
	return 0, false
}
