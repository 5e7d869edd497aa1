package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResourceNameNormalizesSeparators(t *testing.T) {
	assert.Equal(t, "\\img\\cat.png", normalizeResourceName("img/cat.png"))
}

func TestDictionaryLocate(t *testing.T) {
	dict := openFixture(t, true, [][2]string{{"\\img\\cat.png", "PNGDATA"}})

	data, err := dict.Locate("\\img\\cat.png", ResourceEncodingNone)
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", data)

	_, err = dict.Locate("\\img\\missing.png", ResourceEncodingNone)
	assert.True(t, IsNotFound(err))
}

func TestDictionaryLocateBase64(t *testing.T) {
	dict := openFixture(t, true, [][2]string{{"\\img\\cat.png", "PNGDATA"}})

	data, err := dict.Locate("\\img\\cat.png", ResourceEncodingBase64)
	require.NoError(t, err)
	// base64 of "PNGDATA"
	assert.Equal(t, "UE5HREFUQQ==", data)
}

func TestDictionaryLocateHex(t *testing.T) {
	dict := openFixture(t, true, [][2]string{{"\\img\\cat.png", "PNGDATA"}})

	data, err := dict.Locate("\\img\\cat.png", ResourceEncodingHex)
	require.NoError(t, err)
	// hex of "PNGDATA"
	assert.Equal(t, "504e4744415441", data)
}

func TestDictionaryLocateOnMDXFails(t *testing.T) {
	dict := openFixture(t, false, testPairs())

	_, err := dict.Locate("apple", ResourceEncodingNone)
	assert.ErrorIs(t, err, ErrNotMDD)
}
