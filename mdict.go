//
// Copyright (C) 2023 Quan Chen <chenquan_act@163.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package mdx

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("default")

// Dictionary is a high-level reader over an MDX (text) or MDD (binary
// resource) dictionary file. A Dictionary is safe for concurrent use
// once BuildIndex has returned successfully: lookups only ever issue
// positional reads against the underlying file and touch no shared
// mutable state beyond an optional BlockCache.
type Dictionary struct {
	path   string
	params *DictParams
	reader *binReader

	keyIdx *keyIndex
	recIdx *recordIndex

	cache             BlockCache
	preferredEncoding Encoding
	hasPreferredEnc   bool

	keyBlockStartOffset int64
}

// Option configures a Dictionary at construction time.
type Option func(*Dictionary)

// WithCache attaches a BlockCache that Lookup, Locate and Suggest
// consult before decompressing a key or record block, and populate
// after. A nil cache (the default) disables caching.
func WithCache(cache BlockCache) Option {
	return func(d *Dictionary) {
		d.cache = cache
	}
}

// WithPasscode supplies a decryption passcode for record-level
// encryption. The reader accepts and stores it but does not implement
// record decryption: BuildIndex succeeds, and any subsequent attempt to
// read a record from a passcode-protected dictionary fails with
// UnsupportedEncryptionError. See SPEC_FULL.md §9.
func WithPasscode(passcode string) Option {
	return func(d *Dictionary) {
		d.params.Passcode = passcode
	}
}

// WithPreferredEncoding overrides the encoding negotiated from the
// header's Encoding attribute. Dictionaries occasionally declare an
// encoding that does not match their actual key/record bytes; this
// lets a caller correct for that without patching the file.
func WithPreferredEncoding(enc Encoding) Option {
	return func(d *Dictionary) {
		d.preferredEncoding = enc
		d.hasPreferredEnc = true
	}
}

// New opens path and parses its header, negotiating DictParams. It
// does not yet parse the key or record index tables; call BuildIndex
// before Lookup, Contains, Suggest or Keys.
func New(path string, opts ...Option) (*Dictionary, error) {
	format := FormatMDX
	if strings.ToLower(filepath.Ext(path)) == ".mdd" {
		format = FormatMDD
	}

	r, err := openBinReader(path)
	if err != nil {
		return nil, err
	}

	raw, err := readRawHeader(r)
	if err != nil {
		r.Close()
		return nil, err
	}

	params, err := parseDictParams(raw, format)
	if err != nil {
		r.Close()
		return nil, err
	}

	d := &Dictionary{
		path:   path,
		params: params,
		reader: r,
	}

	for _, opt := range opts {
		opt(d)
	}
	if d.hasPreferredEnc {
		d.params.Encoding = d.preferredEncoding
	}

	d.keyBlockStartOffset = raw.totalByteSize
	return d, nil
}

// BuildIndex parses the key-block-info and record-block-info tables.
// Together with the header checksum that New has already verified, it
// validates every structural invariant that does not require
// decompressing an individual block (size and entry count totals,
// key-range ordering, the record entries_num); invariants that only a specific
// block can reveal surface later, from Lookup/Contains/Suggest/Keys,
// as CorruptBlockError.
func (d *Dictionary) BuildIndex() error {
	keyIdx, afterKeyBlocks, err := buildKeyIndex(d.reader, d.params, d.keyBlockStartOffset)
	if err != nil {
		return err
	}
	d.keyIdx = keyIdx

	recMeta, recInfoStart, err := readRecordBlockMeta(d.reader, d.params, afterKeyBlocks)
	if err != nil {
		return err
	}
	if recMeta.entriesNum != keyIdx.entriesNum {
		return newCorruptFormat("record entries_num %d does not match key entries_num %d", recMeta.entriesNum, keyIdx.entriesNum)
	}

	recIdx, err := buildRecordIndex(d.reader, d.params, recMeta, recInfoStart)
	if err != nil {
		return err
	}
	d.recIdx = recIdx

	return nil
}

// Close releases the underlying file handle.
func (d *Dictionary) Close() error {
	return d.reader.Close()
}

// Name returns the dictionary's file name without its .mdx/.mdd
// extension.
func (d *Dictionary) Name() string {
	base := filepath.Base(d.path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base
}

// Title returns the header's Title attribute.
func (d *Dictionary) Title() string { return d.params.Title }

// Description returns the header's Description attribute.
func (d *Dictionary) Description() string { return d.params.Description }

// CreationDate returns the header's CreationDate attribute.
func (d *Dictionary) CreationDate() string { return d.params.CreationDate }

// GeneratedByEngineVersion returns the header's GeneratedByEngineVersion attribute.
func (d *Dictionary) GeneratedByEngineVersion() string { return d.params.GeneratedByEngineVersion }

// IsMDD reports whether this dictionary is a binary resource (MDD)
// container as opposed to a text (MDX) one.
func (d *Dictionary) IsMDD() bool { return d.params.Format == FormatMDD }

// Encoding returns the negotiated text encoding.
func (d *Dictionary) Encoding() Encoding { return d.params.Encoding }

// Len returns the total number of key entries in the dictionary.
func (d *Dictionary) Len() int64 {
	if d.keyIdx == nil {
		return 0
	}
	return d.keyIdx.entriesNum
}

// Lookup resolves word to its definition text, decoded to UTF-8 using
// the dictionary's negotiated encoding with any trailing NUL
// terminator stripped. It fails with ErrNotMDX if called on an MDD
// dictionary (use Locate instead), and with ErrNotFound if no key
// entry matches exactly.
func (d *Dictionary) Lookup(word string) ([]byte, error) {
	if d.params.Format != FormatMDX {
		return nil, ErrNotMDX
	}

	raw, err := d.lookup(word)
	if err != nil {
		return nil, err
	}

	text, err := decodeText(raw, d.params.Encoding)
	if err != nil {
		return nil, err
	}
	text = strings.TrimRight(text, "\x00")

	return []byte(text), nil
}

func (d *Dictionary) lookup(word string) ([]byte, error) {
	word = strings.TrimSpace(word)

	blockIdx, ok := d.keyIdx.findBlock(word)
	if !ok {
		return nil, ErrNotFound
	}

	entries, err := d.decodeKeyBlock(blockIdx)
	if err != nil {
		return nil, err
	}

	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Key >= word
	})
	if i >= len(entries) || entries[i].Key != word {
		return nil, ErrNotFound
	}

	log.Debugf("dictionary.Lookup hit entry [%d/%d] in block %d key:(%s)", i, len(entries), blockIdx, word)

	start := entries[i].RecordOffset
	end, err := d.entryEndOffset(blockIdx, entries, i)
	if err != nil {
		return nil, err
	}

	return d.readRecordSpan(start, end)
}

// Contains reports whether word has an exact matching key entry,
// without decompressing and returning its record bytes.
func (d *Dictionary) Contains(word string) (bool, error) {
	word = strings.TrimSpace(word)

	blockIdx, ok := d.keyIdx.findBlock(word)
	if !ok {
		return false, nil
	}

	entries, err := d.decodeKeyBlock(blockIdx)
	if err != nil {
		return false, err
	}

	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Key >= word
	})
	return i < len(entries) && entries[i].Key == word, nil
}

// entryEndOffset computes the exclusive end of entries[i]'s record
// span: the next entry's RecordOffset within the same block, the next
// key block's first entry RecordOffset if entries[i] is the last entry
// of a non-final block, or the total decompressed record stream length
// if entries[i] is the last entry of the last block.
func (d *Dictionary) entryEndOffset(blockIdx int, entries []KeyEntry, i int) (int64, error) {
	if i+1 < len(entries) {
		return entries[i+1].RecordOffset, nil
	}

	if blockIdx+1 < len(d.keyIdx.blockInfos) {
		nextEntries, err := d.decodeKeyBlock(blockIdx + 1)
		if err != nil {
			return 0, err
		}
		if len(nextEntries) == 0 {
			return 0, newCorruptFormat("key block %d is empty", blockIdx+1)
		}
		return nextEntries[0].RecordOffset, nil
	}

	last := d.recIdx.blockInfos[len(d.recIdx.blockInfos)-1]
	return last.DecompressedAccumulator + last.DecompressedSize, nil
}

// decodeKeyBlock decompresses (or fetches from cache) key block i and
// splits it into its KeyEntry sequence.
func (d *Dictionary) decodeKeyBlock(i int) ([]KeyEntry, error) {
	cacheKey := blockCacheKey("key", d.Name(), i)
	if d.cache != nil {
		if cached, ok := d.cache.Get(cacheKey); ok {
			return decodeKeyEntryCache(cached)
		}
	}

	raw, err := d.keyIdx.decodeBlock(d.reader, d.params, i)
	if err != nil {
		return nil, err
	}

	entries, err := splitKeyBlock(raw, d.params, i)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if encoded := encodeKeyEntryCache(entries); encoded != nil {
			d.cache.Set(cacheKey, encoded)
		}
	}

	return entries, nil
}

// readRecordSpan returns the decompressed record bytes spanning the
// half-open byte range [start, end) of the conceptual concatenation of
// all decompressed record blocks, decompressing only the blocks that
// range touches.
func (d *Dictionary) readRecordSpan(start, end int64) ([]byte, error) {
	if d.params.recordEncrypted() {
		return nil, &UnsupportedEncryptionError{Detail: "record-level encryption is not implemented"}
	}

	startBlock, ok := d.recIdx.findBlock(start)
	if !ok {
		return nil, newCorruptFormat("record offset %d has no owning record block", start)
	}

	out := make([]byte, 0, end-start)
	for blockIdx := startBlock; ; blockIdx++ {
		if blockIdx >= len(d.recIdx.blockInfos) {
			return nil, newCorruptFormat("record span [%d,%d) runs past the last record block", start, end)
		}
		bi := d.recIdx.blockInfos[blockIdx]
		blockStart := bi.DecompressedAccumulator
		blockEnd := blockStart + bi.DecompressedSize

		data, err := d.decodeRecordBlock(blockIdx)
		if err != nil {
			return nil, err
		}

		sliceStart := int64(0)
		if start > blockStart {
			sliceStart = start - blockStart
		}
		sliceEnd := bi.DecompressedSize
		if end < blockEnd {
			sliceEnd = end - blockStart
		}
		out = append(out, data[sliceStart:sliceEnd]...)

		if end <= blockEnd {
			break
		}
	}

	return out, nil
}

// decodeRecordBlock decompresses (or fetches from cache) record block i.
func (d *Dictionary) decodeRecordBlock(i int) ([]byte, error) {
	cacheKey := blockCacheKey("record", d.Name(), i)
	if d.cache != nil {
		if cached, ok := d.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	bi := d.recIdx.blockInfos[i]
	buf, err := d.reader.readAt(d.recIdx.dataStartOffset+bi.CompressedAccumulator, bi.CompressedSize)
	if err != nil {
		return nil, err
	}

	data, err := decompressBlock(i, buf, bi.DecompressedSize)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		d.cache.Set(cacheKey, data)
	}

	return data, nil
}
