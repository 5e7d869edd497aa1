package mdx

import "sort"

// Suggest returns every key with the given prefix, in file order
// (block order, then in-block order — which is the dictionary's
// collation order). Only key blocks whose [FirstKey,LastKey] range can
// possibly hold a match under the prefix are decompressed. An empty
// prefix returns nil rather than every key.
func (d *Dictionary) Suggest(prefix string) ([]string, error) {
	if prefix == "" {
		return nil, nil
	}

	// Blocks are scanned while their FirstKey is at most upperBound,
	// which is prefix followed by U+FFFF (bytes EF BF BF). A key in
	// which prefix is followed by a character above U+FFFF sorts after
	// upperBound, so a block whose FirstKey is such a key is not
	// scanned.
	upperBound := prefix + "￿"

	lo := sort.Search(len(d.keyIdx.blockInfos), func(i int) bool {
		return d.keyIdx.blockInfos[i].LastKey >= prefix
	})

	var out []string
	for i := lo; i < len(d.keyIdx.blockInfos); i++ {
		bi := d.keyIdx.blockInfos[i]
		if bi.FirstKey > upperBound {
			break
		}

		entries, err := d.decodeKeyBlock(i)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if len(e.Key) >= len(prefix) && e.Key[:len(prefix)] == prefix {
				out = append(out, e.Key)
			}
		}
	}

	return out, nil
}

// Keys returns every key entry in the dictionary, in file order. It
// decompresses each key block once, in sequence; callers that only
// need to test membership or fetch one definition should prefer
// Contains or Lookup, which only touch the blocks they need.
func (d *Dictionary) Keys() ([]KeyEntry, error) {
	out := make([]KeyEntry, 0, d.keyIdx.entriesNum)
	for i := range d.keyIdx.blockInfos {
		entries, err := d.decodeKeyBlock(i)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}
