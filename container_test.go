package n5_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n5lib/n5"
	"github.com/n5lib/n5/compression"
	"github.com/n5lib/n5/internal/n5test"
)

func TestReadWriteBlockRoundTrip(t *testing.T) {
	c := n5test.New()
	attrs, err := n5.NewDatasetAttributes([]uint64{8, 8}, []uint32{4, 4}, n5.Uint16, compression.NewGzip(6))
	require.NoError(t, err)
	require.NoError(t, c.CreateDataset("volume", attrs))

	block := n5.NewBlock[uint16]([]uint32{4, 4}, []uint64{0, 1}, []uint16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	require.NoError(t, n5.WriteBlock(c, "volume", attrs, block))

	read, err := n5.ReadBlock[uint16](c, "volume", attrs, []uint64{0, 1})
	require.NoError(t, err)
	require.NotNil(t, read)
	require.Equal(t, block.Data, read.Data)

	missing, err := n5.ReadBlock[uint16](c, "volume", attrs, []uint64{1, 1})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestReadBlockIntoRoundTrip(t *testing.T) {
	c := n5test.New()
	attrs, err := n5.NewDatasetAttributes([]uint64{8}, []uint32{4}, n5.Float32, compression.NewRaw())
	require.NoError(t, err)
	require.NoError(t, c.CreateDataset("f", attrs))

	block := n5.NewBlock[float32]([]uint32{4}, []uint64{0}, []float32{1.5, 2.5, 3.5, 4.5})
	require.NoError(t, n5.WriteBlock(c, "f", attrs, block))

	into := &n5.Block[float32]{}
	ok, err := n5.ReadBlockInto(c, "f", attrs, []uint64{0}, into)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, block.Data, into.Data)

	ok, err = n5.ReadBlockInto(c, "f", attrs, []uint64{1}, into)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAttributeDeepMerge(t *testing.T) {
	c := n5test.New()
	require.NoError(t, c.CreateGroup("g"))

	require.NoError(t, c.SetAttributes("g", map[string]any{
		"resolution": map[string]any{"x": 1.0, "y": 1.0},
		"name":       "first",
	}))
	require.NoError(t, c.SetAttributes("g", map[string]any{
		"resolution": map[string]any{"y": 2.0, "z": 3.0},
		"name":       nil,
	}))

	attrs, err := c.ListAttributes("g")
	require.NoError(t, err)

	res := attrs["resolution"].(map[string]any)
	require.Equal(t, 1.0, res["x"])
	require.Equal(t, 2.0, res["y"])
	require.Equal(t, 3.0, res["z"])
	require.Nil(t, attrs["name"])
}

func TestDeleteBlockIsIdempotent(t *testing.T) {
	c := n5test.New()
	attrs, err := n5.NewDatasetAttributes([]uint64{4}, []uint32{4}, n5.Uint8, compression.NewRaw())
	require.NoError(t, err)
	require.NoError(t, c.CreateDataset("d", attrs))

	ok, err := c.DeleteBlock("d", []uint64{0})
	require.NoError(t, err)
	require.True(t, ok)

	block := n5.NewBlock[uint8]([]uint32{4}, []uint64{0}, []uint8{1, 2, 3, 4})
	require.NoError(t, n5.WriteBlock(c, "d", attrs, block))

	ok, err = c.DeleteBlock("d", []uint64{0})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.DeleteBlock("d", []uint64{0})
	require.NoError(t, err)
	require.True(t, ok)
}
