package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAttributesFileDeepMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.json")

	require.NoError(t, writeAttributesFile(path, map[string]any{
		"resolution": map[string]any{"x": 1.0, "y": 1.0},
		"name":       "first",
	}))
	require.NoError(t, writeAttributesFile(path, map[string]any{
		"resolution": map[string]any{"y": 2.0, "z": 3.0},
	}))

	got, err := readAttributesFile(path)
	require.NoError(t, err)

	res := got["resolution"].(map[string]any)
	require.Equal(t, 1.0, res["x"])
	require.Equal(t, 2.0, res["y"])
	require.Equal(t, 3.0, res["z"])
	require.Equal(t, "first", got["name"])
}

func TestWriteAttributesFileNullReplacesNotDeletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.json")

	require.NoError(t, writeAttributesFile(path, map[string]any{"name": "first"}))
	require.NoError(t, writeAttributesFile(path, map[string]any{"name": nil}))

	got, err := readAttributesFile(path)
	require.NoError(t, err)

	_, present := got["name"]
	require.True(t, present)
	require.Nil(t, got["name"])
}

func TestReadAttributesFileMissingIsEmpty(t *testing.T) {
	got, err := readAttributesFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWriteAttributesFileShrinkingTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.json")

	require.NoError(t, writeAttributesFile(path, map[string]any{
		"long_key_name_here": "a fairly long value to pad the file out",
	}))
	require.NoError(t, writeAttributesFile(path, map[string]any{
		"long_key_name_here": "x",
	}))

	got, err := readAttributesFile(path)
	require.NoError(t, err)
	require.Equal(t, "x", got["long_key_name_here"])
}
