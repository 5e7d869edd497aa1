package mdx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecordIndex(t *testing.T) {
	params := &DictParams{NumberWidth: 8, Version: 2.0}

	var info []byte
	info = append(info, beN(100, 8)...) // block 0 compressed size
	info = append(info, beN(200, 8)...) // block 0 decompressed size
	info = append(info, beN(50, 8)...)  // block 1 compressed size
	info = append(info, beN(80, 8)...)  // block 1 decompressed size

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, info, 0o644))
	r, err := openBinReader(path)
	require.NoError(t, err)
	defer r.Close()

	meta := &recordBlockMeta{
		recordBlockNum:      2,
		infoCompressedSize:  int64(len(info)),
		blockCompressedSize: 150,
	}

	idx, err := buildRecordIndex(r, params, meta, 0)
	require.NoError(t, err)
	require.Len(t, idx.blockInfos, 2)

	assert.EqualValues(t, 0, idx.blockInfos[0].CompressedAccumulator)
	assert.EqualValues(t, 0, idx.blockInfos[0].DecompressedAccumulator)
	assert.EqualValues(t, 100, idx.blockInfos[1].CompressedAccumulator)
	assert.EqualValues(t, 200, idx.blockInfos[1].DecompressedAccumulator)

	idx0, ok := idx.findBlock(150)
	assert.True(t, ok)
	assert.Equal(t, 0, idx0)

	idx1, ok := idx.findBlock(250)
	assert.True(t, ok)
	assert.Equal(t, 1, idx1)
}

func TestBuildRecordIndexSizeMismatch(t *testing.T) {
	params := &DictParams{NumberWidth: 8, Version: 2.0}

	var info []byte
	info = append(info, beN(100, 8)...)
	info = append(info, beN(200, 8)...)

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, info, 0o644))
	r, err := openBinReader(path)
	require.NoError(t, err)
	defer r.Close()

	meta := &recordBlockMeta{
		recordBlockNum:      1,
		infoCompressedSize:  int64(len(info)),
		blockCompressedSize: 999, // wrong on purpose
	}

	_, err = buildRecordIndex(r, params, meta, 0)
	require.Error(t, err)
	var corrupt *CorruptFormatError
	assert.ErrorAs(t, err, &corrupt)
}
