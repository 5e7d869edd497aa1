package mdx

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the declared text encoding of a dictionary's key
// and record text, negotiated from the header's Encoding attribute.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF16LE
	EncodingBig5
	EncodingGBK
	EncodingGB2312
	EncodingGB18030
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingBig5:
		return "BIG5"
	case EncodingGBK:
		return "GBK"
	case EncodingGB2312:
		return "GB2312"
	case EncodingGB18030:
		return "GB18030"
	default:
		return "unknown"
	}
}

// charWidth returns the minimum byte width of one character in the
// NUL-terminated key strings for this encoding: 2 for UTF-16 variants,
// 1 otherwise. MDD paths are always UTF-16LE regardless of the
// dictionary's declared Encoding, handled by the caller.
func (e Encoding) charWidth() int {
	if e == EncodingUTF16LE {
		return 2
	}
	return 1
}

func (e Encoding) textDecoder() *encoding.Decoder {
	switch e {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingBig5:
		return traditionalchinese.Big5.NewDecoder()
	case EncodingGBK:
		return simplifiedchinese.GBK.NewDecoder()
	case EncodingGB2312:
		// GBK is a superset of GB2312 in its EUC-CN byte form.
		return simplifiedchinese.GBK.NewDecoder()
	case EncodingGB18030:
		return simplifiedchinese.GB18030.NewDecoder()
	default:
		return nil
	}
}

// decodeText decodes raw dictionary-encoded bytes to a UTF-8 string
// using the dictionary's negotiated encoding. UTF-8 input passes
// through unchanged.
func decodeText(raw []byte, enc Encoding) (string, error) {
	dec := enc.textDecoder()
	if dec == nil {
		return string(raw), nil
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("mdx: failed to decode text as %s: %w", enc, err)
	}
	return string(out), nil
}

// decodeUTF16LE decodes a UTF-16LE byte slice (used for MDD paths and
// for UTF-16LE headers/key text regardless of the declared Encoding).
func decodeUTF16LE(raw []byte) (string, error) {
	return decodeText(raw, EncodingUTF16LE)
}
