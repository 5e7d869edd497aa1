package mdx

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// rawHeader is the length-prefixed UTF-16LE XML header block plus its
// trailing checksum, read verbatim from the front of the file.
type rawHeader struct {
	utf16Bytes    []byte
	checksumWord  uint32
	totalByteSize int64 // 4 (length) + len(utf16Bytes) + 4 (checksum)
}

// readRawHeader reads the header block: a u32be length L, L bytes of
// UTF-16LE XML, then a little-endian u32 Adler32 word.
func readRawHeader(r *binReader) (*rawHeader, error) {
	lenBuf, err := r.readAt(0, 4)
	if err != nil {
		return nil, err
	}
	headerLen := int64(u32be(lenBuf))

	xmlBuf, err := r.readAt(4, headerLen)
	if err != nil {
		return nil, err
	}

	checksumBuf, err := r.readAt(4+headerLen, 4)
	if err != nil {
		return nil, err
	}
	checksumWord := binary.LittleEndian.Uint32(checksumBuf)

	return &rawHeader{
		utf16Bytes:    xmlBuf,
		checksumWord:  checksumWord,
		totalByteSize: 4 + headerLen + 4,
	}, nil
}

// parseDictParams validates invariant 1 (header Adler32) and extracts
// the negotiated DictParams from the header's XML attributes.
func parseDictParams(h *rawHeader, format DictFormat) (*DictParams, error) {
	checksum := adler32Sum(h.utf16Bytes)
	if checksum != h.checksumWord {
		return nil, newCorruptFormat("header adler32 mismatch: expected %d, computed %d", h.checksumWord, checksum)
	}

	xmlText, err := decodeUTF16LE(h.utf16Bytes)
	if err != nil {
		return nil, newCorruptFormat("header is not valid UTF-16LE: %v", err)
	}
	// Trim the trailing NUL terminator some generators include.
	xmlText = strings.TrimRight(xmlText, "\x00")

	attrs, err := extractHeaderAttributes(xmlText)
	if err != nil {
		return nil, newCorruptFormat("%v", err)
	}

	params := &DictParams{
		Format:                   format,
		Title:                    attrs["Title"],
		Description:              attrs["Description"],
		CreationDate:             attrs["CreationDate"],
		GeneratedByEngineVersion: attrs["GeneratedByEngineVersion"],
		Passcode:                 attrs["RegCode"],
	}

	params.EncryptMask = parseEncryptAttr(attrs["Encrypted"])

	versionStr := attrs["GeneratedByEngineVersion"]
	if versionStr == "" {
		versionStr = "2.0"
	}
	version, err := strconv.ParseFloat(versionStr, 32)
	if err != nil {
		return nil, newCorruptFormat("invalid GeneratedByEngineVersion %q: %v", versionStr, err)
	}
	params.Version = float32(version)

	if params.Version != 1.2 && params.Version != 2.0 {
		return nil, &UnsupportedVersionError{Version: params.Version}
	}

	if params.Version >= 2.0 {
		params.NumberWidth = 8
	} else {
		params.NumberWidth = 4
	}

	params.Encoding = parseEncodingAttr(attrs["Encoding"])
	if format == FormatMDD {
		// MDD resource paths are always UTF-16LE regardless of the
		// declared Encoding attribute.
		params.Encoding = EncodingUTF16LE
	}

	return params, nil
}

// parseEncryptAttr implements the Encrypted-attribute grammar: absent
// or "No" means unencrypted, "Yes" means legacy record encryption, and
// otherwise the leading digit is read as a bitmask ("2" = key-info
// encryption, "1" = record encryption, "3" = both).
func parseEncryptAttr(v string) int {
	switch v {
	case "", "No":
		return 0
	case "Yes":
		return EncryptRecordBit
	}
	mask := 0
	switch v[0] {
	case '1':
		mask |= EncryptRecordBit
	case '2':
		mask |= EncryptKeyInfoBit
	case '3':
		mask |= EncryptRecordBit | EncryptKeyInfoBit
	}
	return mask
}

func parseEncodingAttr(v string) Encoding {
	switch strings.ToLower(v) {
	case "gbk", "gb2312", "gb18030":
		return EncodingGB18030
	case "big5":
		return EncodingBig5
	case "utf-16", "utf16":
		return EncodingUTF16LE
	default:
		return EncodingUTF8
	}
}
