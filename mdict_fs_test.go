package mdx

import (
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryFSOpenMDX(t *testing.T) {
	dict := openFixture(t, false, testPairs())
	dfs := NewDictionaryFS(dict)

	f, err := dfs.Open("apple")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f.(io.Reader))
	require.NoError(t, err)
	assert.Equal(t, "APPLE_DEF", string(data))
}

func TestDictionaryFSOpenMissing(t *testing.T) {
	dict := openFixture(t, false, testPairs())
	dfs := NewDictionaryFS(dict)

	_, err := dfs.Open("cherry")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDictionaryFSReadDir(t *testing.T) {
	dict := openFixture(t, false, testPairs())
	dfs := NewDictionaryFS(dict)

	root, err := dfs.Open(".")
	require.NoError(t, err)
	defer root.Close()

	entries, err := root.(fs.ReadDirFile).ReadDir(-1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
