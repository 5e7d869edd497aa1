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
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup word has no matching key entry.
// It is a normal negative result, not a structural failure.
var ErrNotFound = errors.New("mdx: word not found")

// ErrNotMDD is returned when Locate is called on an MDX dictionary.
var ErrNotMDD = errors.New("mdx: Locate is only valid for MDD dictionaries")

// ErrNotMDX is returned when Lookup (text) is called on an MDD dictionary.
var ErrNotMDX = errors.New("mdx: Lookup is only valid for MDX dictionaries, use Locate")

// CorruptFormatError reports a structural invariant violation detected
// without touching block compression (header checksum, size totals,
// key ordering).
type CorruptFormatError struct {
	Reason string
}

func (e *CorruptFormatError) Error() string {
	return fmt.Sprintf("mdx: corrupt format: %s", e.Reason)
}

func newCorruptFormat(format string, args ...interface{}) error {
	return &CorruptFormatError{Reason: fmt.Sprintf(format, args...)}
}

// CorruptBlockError reports a checksum or size mismatch discovered only
// once a specific key or record block is decompressed.
type CorruptBlockError struct {
	BlockID int
	Reason  string
}

func (e *CorruptBlockError) Error() string {
	return fmt.Sprintf("mdx: corrupt block %d: %s", e.BlockID, e.Reason)
}

func newCorruptBlock(blockID int, format string, args ...interface{}) error {
	return &CorruptBlockError{BlockID: blockID, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedEncryptionError is returned when a file declares a form of
// encryption this reader does not implement (record-level encryption,
// passcode-derived keys).
type UnsupportedEncryptionError struct {
	Detail string
}

func (e *UnsupportedEncryptionError) Error() string {
	if e.Detail == "" {
		return "mdx: unsupported encryption"
	}
	return fmt.Sprintf("mdx: unsupported encryption: %s", e.Detail)
}

// UnsupportedVersionError is returned when the engine version negotiated
// from the header is outside {1.2, 2.0}-family support.
type UnsupportedVersionError struct {
	Version float32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("mdx: unsupported engine version %.1f", e.Version)
}

// TruncatedError is returned when a positional read would run past the
// end of the file.
type TruncatedError struct {
	Offset int64
	Need   int64
	Size   int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("mdx: truncated file: need %d bytes at offset %d, file size is %d", e.Need, e.Offset, e.Size)
}

func newTruncated(offset, need, size int64) error {
	return &TruncatedError{Offset: offset, Need: need, Size: size}
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
