package n5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n5lib/n5/compression"
)

func datasetFor(t *testing.T, comp compression.CompressionType) DatasetAttributes {
	t.Helper()
	attrs, err := NewDatasetAttributes([]uint64{10, 10}, []uint32{4, 4}, Int32, comp)
	require.NoError(t, err)
	return attrs
}

func TestEncodeDecodeBlockFullMode(t *testing.T) {
	for _, comp := range []compression.CompressionType{
		compression.NewRaw(),
		compression.NewGzip(6),
		compression.NewBzip2(9),
		compression.NewLz4(0),
		compression.NewXz(6),
	} {
		attrs := datasetFor(t, comp)
		block := NewBlock[int32]([]uint32{4, 4}, []uint64{0, 0}, []int32{
			1, -2, 3, -4, 5, -6, 7, -8, 9, -10, 11, -12, 13, -14, 15, -16,
		})

		var buf bytes.Buffer
		require.NoError(t, EncodeBlock(&buf, attrs, block))

		decoded, err := DecodeBlock[int32](&buf, attrs, []uint64{0, 0})
		require.NoError(t, err)
		require.Equal(t, block.Data, decoded.Data)
		require.Equal(t, block.Size, decoded.Size)
	}
}

func TestEncodeDecodeVarlengthBlock(t *testing.T) {
	attrs := datasetFor(t, compression.NewRaw())
	// Varlength block: it carries fewer elements (3) than its Size
	// implies (16), so it is encoded in mode 1 with an explicit count.
	block := NewBlock[int32]([]uint32{4, 4}, []uint64{2, 2}, []int32{1, 2, 3})

	var buf bytes.Buffer
	require.NoError(t, EncodeBlock(&buf, attrs, block))

	decoded, err := DecodeBlock[int32](&buf, attrs, []uint64{2, 2})
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, decoded.Data)
}

func TestDecodeBlockRejectsTypeMismatch(t *testing.T) {
	attrs := datasetFor(t, compression.NewRaw())
	block := NewBlock[int32]([]uint32{4, 4}, []uint64{0, 0}, make([]int32, 16))

	var buf bytes.Buffer
	require.NoError(t, EncodeBlock(&buf, attrs, block))

	_, err := DecodeBlock[uint32](&buf, attrs, []uint64{0, 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeBlockIntoReusesBuffer(t *testing.T) {
	attrs := datasetFor(t, compression.NewRaw())
	block := NewBlock[int32]([]uint32{4, 4}, []uint64{0, 0}, make([]int32, 16))
	for i := range block.Data {
		block.Data[i] = int32(i)
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeBlock(&buf, attrs, block))

	reused := &Block[int32]{Data: make([]int32, 0, 16)}
	require.NoError(t, DecodeBlockInto(&buf, attrs, []uint64{0, 0}, reused))
	require.Equal(t, block.Data, reused.Data)
}

func TestDecodeBlockHeaderRejectsBadMode(t *testing.T) {
	attrs := datasetFor(t, compression.NewRaw())
	// mode 0x0002 is neither full (0) nor varlength (1).
	var bad bytes.Buffer
	bad.Write([]byte{0x00, 0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x02})
	_, err := DecodeBlock[int32](&bad, attrs, []uint64{0, 0})
	require.ErrorIs(t, err, ErrInvalidData)
}
