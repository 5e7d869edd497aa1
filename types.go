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

// DictFormat identifies whether a file is the textual (MDX) or binary
// resource (MDD) container variant of the format.
type DictFormat int

const (
	FormatMDX DictFormat = iota
	FormatMDD
)

func (f DictFormat) String() string {
	if f == FormatMDD {
		return "MDD"
	}
	return "MDX"
}

// Encryption bitmask values, matching spec.md §3: bit0 is record
// encryption (unsupported, fails on use), bit1 is key-info encryption.
const (
	EncryptRecordBit  = 1 << 0
	EncryptKeyInfoBit = 1 << 1
)

// DictParams holds the negotiated header parameters. It is immutable
// once New returns.
type DictParams struct {
	Version     float32
	Encoding    Encoding
	EncryptMask int
	Format      DictFormat
	NumberWidth int // 4 if Version < 2.0, else 8
	Passcode    string

	Title                    string
	Description              string
	CreationDate             string
	GeneratedByEngineVersion string
}

func (p *DictParams) keyInfoEncrypted() bool {
	return p.EncryptMask&EncryptKeyInfoBit != 0
}

func (p *DictParams) recordEncrypted() bool {
	return p.EncryptMask&EncryptRecordBit != 0
}

// KeyBlockInfoEntry describes one key block's position in the
// key-block-info table: its first/last key (for binary search) and its
// compressed/decompressed size with precomputed prefix-sum
// accumulators, so a block's file offset is O(1) to compute.
type KeyBlockInfoEntry struct {
	FirstKey string
	LastKey  string

	CompressedSize   int64
	DecompressedSize int64

	CompressedAccumulator   int64
	DecompressedAccumulator int64
}

// KeyEntry is one (record-offset, key-text) pair extracted from a
// decompressed key block. RecordOffset is a byte position into the
// conceptual concatenation of all decompressed record blocks.
type KeyEntry struct {
	Key          string
	RecordOffset int64
	BlockIndex   int
}

// RecordBlockInfoEntry describes one record block's compressed and
// decompressed size, with precomputed prefix-sum accumulators.
type RecordBlockInfoEntry struct {
	CompressedSize   int64
	DecompressedSize int64

	CompressedAccumulator   int64
	DecompressedAccumulator int64
}
