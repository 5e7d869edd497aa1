package mdx

import (
	"hash/adler32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncryptAttr(t *testing.T) {
	assert.Equal(t, 0, parseEncryptAttr(""))
	assert.Equal(t, 0, parseEncryptAttr("No"))
	assert.Equal(t, EncryptRecordBit, parseEncryptAttr("Yes"))
	assert.Equal(t, EncryptRecordBit, parseEncryptAttr("1"))
	assert.Equal(t, EncryptKeyInfoBit, parseEncryptAttr("2"))
	assert.Equal(t, EncryptRecordBit|EncryptKeyInfoBit, parseEncryptAttr("3"))
}

func TestParseEncodingAttr(t *testing.T) {
	assert.Equal(t, EncodingGB18030, parseEncodingAttr("GBK"))
	assert.Equal(t, EncodingGB18030, parseEncodingAttr("GB18030"))
	assert.Equal(t, EncodingBig5, parseEncodingAttr("big5"))
	assert.Equal(t, EncodingUTF16LE, parseEncodingAttr("UTF-16"))
	assert.Equal(t, EncodingUTF8, parseEncodingAttr(""))
}

func TestReadRawHeaderAndParseDictParams(t *testing.T) {
	path := buildFixture(t, false, [][2]string{{"apple", "APPLE_DEF"}, {"banana", "BANANA_DEF"}})

	r, err := openBinReader(path)
	require.NoError(t, err)
	defer r.Close()

	raw, err := readRawHeader(r)
	require.NoError(t, err)

	params, err := parseDictParams(raw, FormatMDX)
	require.NoError(t, err)
	assert.Equal(t, float32(2.0), params.Version)
	assert.Equal(t, 8, params.NumberWidth)
	assert.Equal(t, "Test", params.Title)
	assert.Equal(t, 0, params.EncryptMask)
}

func TestParseDictParamsUnsupportedVersion(t *testing.T) {
	xml := "<Dictionary GeneratedByEngineVersion=\"3.0\" Encrypted=\"No\" Encoding=\"\" Title=\"Test\"/>\r\n\x00"
	xmlUTF16 := asciiToUTF16LE(xml)
	raw := &rawHeader{utf16Bytes: xmlUTF16, checksumWord: adler32.Checksum(xmlUTF16)}

	_, err := parseDictParams(raw, FormatMDX)
	require.Error(t, err)
	var unsupported *UnsupportedVersionError
	assert.ErrorAs(t, err, &unsupported)
}

func TestParseDictParamsChecksumMismatch(t *testing.T) {
	path := buildFixture(t, false, [][2]string{{"apple", "APPLE_DEF"}})

	r, err := openBinReader(path)
	require.NoError(t, err)
	defer r.Close()

	raw, err := readRawHeader(r)
	require.NoError(t, err)
	raw.checksumWord ^= 0xFFFFFFFF

	_, err = parseDictParams(raw, FormatMDX)
	require.Error(t, err)
	var corrupt *CorruptFormatError
	assert.ErrorAs(t, err, &corrupt)
}
