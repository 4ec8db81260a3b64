package n5

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n5lib/n5/compression"
)

func TestNewDatasetAttributesRejectsAxisMismatch(t *testing.T) {
	_, err := NewDatasetAttributes([]uint64{10, 10}, []uint32{5}, Uint8, compression.NewRaw())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGridExtent(t *testing.T) {
	attrs, err := NewDatasetAttributes([]uint64{10, 11}, []uint32{5, 4}, Uint8, compression.NewRaw())
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3}, attrs.GridExtent())
	require.Equal(t, uint64(6), attrs.NumBlocks())
}

func TestGridExtentExactMultiple(t *testing.T) {
	attrs, err := NewDatasetAttributes([]uint64{8}, []uint32{4}, Uint8, compression.NewRaw())
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, attrs.GridExtent())
}

func TestInBounds(t *testing.T) {
	attrs, err := NewDatasetAttributes([]uint64{10, 11}, []uint32{5, 4}, Uint8, compression.NewRaw())
	require.NoError(t, err)

	require.True(t, attrs.InBounds([]uint64{0, 0}))
	require.True(t, attrs.InBounds([]uint64{1, 2}))
	require.False(t, attrs.InBounds([]uint64{2, 0}))
	require.False(t, attrs.InBounds([]uint64{0, 3}))
	require.False(t, attrs.InBounds([]uint64{0}))
}

func TestDatasetAttributesJSONRoundTrip(t *testing.T) {
	attrs, err := NewDatasetAttributes([]uint64{100, 200}, []uint32{10, 10}, Float32, compression.NewGzip(6))
	require.NoError(t, err)

	encoded, err := json.Marshal(attrs)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"dataType":"float32"`)
	require.Contains(t, string(encoded), `"blockSize":[10,10]`)

	var decoded DatasetAttributes
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, attrs, decoded)
}

func TestDatasetAttributesJSONRejectsAxisMismatch(t *testing.T) {
	var decoded DatasetAttributes
	err := json.Unmarshal([]byte(`{"dimensions":[1,2],"blockSize":[1],"dataType":"uint8","compression":{"type":"raw"}}`), &decoded)
	require.ErrorIs(t, err, ErrInvalidInput)
}
