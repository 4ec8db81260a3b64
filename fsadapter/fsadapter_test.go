package fsadapter

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n5lib/n5"
	"github.com/n5lib/n5/compression"
	"github.com/n5lib/n5/internal/n5test"
)

func buildContainer(t *testing.T) *n5test.MemContainer {
	t.Helper()
	c := n5test.New()
	require.NoError(t, c.CreateGroup("experiment/raw"))
	attrs, err := n5.NewDatasetAttributes([]uint64{10, 10}, []uint32{5, 5}, n5.Uint8, compression.NewRaw())
	require.NoError(t, err)
	require.NoError(t, c.CreateDataset("experiment/raw/channel0", attrs))
	return c
}

func TestFSListsGroupsAndAttributes(t *testing.T) {
	c := buildContainer(t)
	fsys := FS(c)

	entries, err := fs.ReadDir(fsys, "experiment")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Contains(t, names, "raw")
	require.Contains(t, names, attributesFileName)

	f, err := fsys.Open("experiment/raw/channel0/attributes.json")
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestFSTreeHasNoCycles(t *testing.T) {
	c := buildContainer(t)
	fsys := FS(c)

	seen := map[string]struct{}{}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if _, ok := seen[path]; ok {
			t.Fatalf("cycle detected: revisiting path %q", path)
		}
		seen[path] = struct{}{}
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, seen)
}
