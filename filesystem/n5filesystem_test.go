package filesystem

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n5lib/n5"
	"github.com/n5lib/n5/compression"
)

func TestOpenOrCreateWritesVersion(t *testing.T) {
	dir := t.TempDir()

	fs, err := OpenOrCreate(dir)
	require.NoError(t, err)

	v, err := fs.GetVersion()
	require.NoError(t, err)
	require.Equal(t, n5.Version, v)

	require.FileExists(t, filepath.Join(dir, attributesFileName))
}

func TestOpenRejectsMissingRoot(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, n5.ErrNotFound)
}

func TestOpenRejectsIncompatibleVersion(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenOrCreate(dir)
	require.NoError(t, err)
	require.NoError(t, fs.SetAttribute("", n5.VersionAttributeKey, "99.0.0"))

	_, err = Open(dir)
	require.Error(t, err)
}

func TestCreateDatasetAndGetDatasetAttributes(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenOrCreate(dir)
	require.NoError(t, err)

	attrs, err := n5.NewDatasetAttributes([]uint64{20, 20}, []uint32{5, 5}, n5.Int16, compression.NewXz(6))
	require.NoError(t, err)
	require.NoError(t, fs.CreateDataset("a/b", attrs))

	require.True(t, fs.Exists("a/b"))
	require.True(t, fs.DatasetExists("a/b"))
	require.False(t, fs.DatasetExists("a"))

	got, err := fs.GetDatasetAttributes("a/b")
	require.NoError(t, err)
	require.Equal(t, attrs, got)
}

func TestListReturnsChildGroupsOnly(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenOrCreate(dir)
	require.NoError(t, err)

	require.NoError(t, fs.CreateGroup("a/b"))
	require.NoError(t, fs.CreateGroup("a/c"))

	children, err := fs.List("a")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, children)
}

func TestBlockRoundTripAndDelete(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenOrCreate(dir)
	require.NoError(t, err)

	attrs, err := n5.NewDatasetAttributes([]uint64{8}, []uint32{4}, n5.Uint8, compression.NewBzip2(9))
	require.NoError(t, err)
	require.NoError(t, fs.CreateDataset("d", attrs))

	block := n5.NewBlock[uint8]([]uint32{4}, []uint64{1}, []uint8{10, 20, 30, 40})
	require.NoError(t, n5.WriteBlock(fs, "d", attrs, block))

	read, err := n5.ReadBlock[uint8](fs, "d", attrs, []uint64{1})
	require.NoError(t, err)
	require.Equal(t, block.Data, read.Data)

	meta, ok, err := fs.BlockMetadata("d", attrs, []uint64{1})
	require.NoError(t, err)
	require.True(t, ok)
	var encoded bytes.Buffer
	require.NoError(t, n5.EncodeBlock(&encoded, attrs, block))
	require.Equal(t, int64(encoded.Len()), meta.Size)

	deleted, err := fs.DeleteBlock("d", []uint64{1})
	require.NoError(t, err)
	require.True(t, deleted)

	missing, err := n5.ReadBlock[uint8](fs, "d", attrs, []uint64{1})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRemoveAndRemoveAll(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenOrCreate(dir)
	require.NoError(t, err)

	require.NoError(t, fs.CreateGroup("a/b"))
	require.True(t, fs.Exists("a/b"))

	require.NoError(t, fs.Remove("a/b"))
	require.False(t, fs.Exists("a/b"))
	require.True(t, fs.Exists("a"))

	require.NoError(t, fs.RemoveAll())
	require.False(t, fs.Exists(""))
}
