package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextUTF8Passthrough(t *testing.T) {
	s, err := decodeText([]byte("hello"), EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestDecodeUTF16LE(t *testing.T) {
	s, err := decodeUTF16LE(asciiToUTF16LE("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "UTF-8", EncodingUTF8.String())
	assert.Equal(t, "GB18030", EncodingGB18030.String())
}

func TestEncodingCharWidth(t *testing.T) {
	assert.Equal(t, 2, EncodingUTF16LE.charWidth())
	assert.Equal(t, 1, EncodingGBK.charWidth())
}
