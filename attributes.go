package n5

import (
	"encoding/json"
	"fmt"

	"github.com/n5lib/n5/compression"
)

// DatasetAttributes is the immutable metadata describing a tensor
// dataset: its shape, how it's chunked, its element type, and its
// compression. len(Dimensions) must equal len(BlockSize) (§3).
type DatasetAttributes struct {
	Dimensions  []uint64
	BlockSize   []uint32
	DataType    DataType
	Compression compression.CompressionType
}

// NewDatasetAttributes validates the dimensions/blockSize length
// invariant and returns the attributes value.
func NewDatasetAttributes(dimensions []uint64, blockSize []uint32, dataType DataType, comp compression.CompressionType) (DatasetAttributes, error) {
	if len(dimensions) == 0 {
		return DatasetAttributes{}, fmt.Errorf("%w: dimensions must have at least one axis", ErrInvalidInput)
	}
	if len(dimensions) != len(blockSize) {
		return DatasetAttributes{}, fmt.Errorf(
			"%w: dimensions has %d axes, blockSize has %d", ErrInvalidInput, len(dimensions), len(blockSize))
	}
	for i, d := range dimensions {
		if d == 0 {
			return DatasetAttributes{}, fmt.Errorf("%w: dimensions[%d] must be > 0", ErrInvalidInput, i)
		}
	}
	for i, b := range blockSize {
		if b == 0 {
			return DatasetAttributes{}, fmt.Errorf("%w: blockSize[%d] must be > 0", ErrInvalidInput, i)
		}
	}
	return DatasetAttributes{
		Dimensions:  dimensions,
		BlockSize:   blockSize,
		DataType:    dataType,
		Compression: comp,
	}, nil
}

// NDim returns the number of axes.
func (a DatasetAttributes) NDim() int {
	return len(a.Dimensions)
}

// NumElements returns the product of Dimensions.
func (a DatasetAttributes) NumElements() uint64 {
	n := uint64(1)
	for _, d := range a.Dimensions {
		n *= d
	}
	return n
}

// BlockNumElements returns the product of BlockSize.
func (a DatasetAttributes) BlockNumElements() uint64 {
	n := uint64(1)
	for _, b := range a.BlockSize {
		n *= uint64(b)
	}
	return n
}

// GridExtent returns the per-axis number of blocks:
// ceil(dimensions[i] / blockSize[i]), computed as
// d/b + (1 if d mod b != 0 else 0) rather than the more familiar
// (d+b-1)/b, so that no intermediate sum can overflow at the u64
// boundary.
func (a DatasetAttributes) GridExtent() []uint64 {
	extent := make([]uint64, len(a.Dimensions))
	for i, d := range a.Dimensions {
		b := uint64(a.BlockSize[i])
		extent[i] = d/b + extraBlock(d, b)
	}
	return extent
}

func extraBlock(d, b uint64) uint64 {
	if d%b != 0 {
		return 1
	}
	return 0
}

// NumBlocks returns the product of GridExtent.
func (a DatasetAttributes) NumBlocks() uint64 {
	n := uint64(1)
	for _, e := range a.GridExtent() {
		n *= e
	}
	return n
}

// InBounds reports whether gridPosition addresses a block within this
// dataset's grid.
func (a DatasetAttributes) InBounds(gridPosition []uint64) bool {
	if len(gridPosition) != a.NDim() {
		return false
	}
	extent := a.GridExtent()
	for i, g := range gridPosition {
		if g >= extent[i] {
			return false
		}
	}
	return true
}

// datasetAttributesJSON is the camelCase wire form of DatasetAttributes.
type datasetAttributesJSON struct {
	Dimensions  []uint64                    `json:"dimensions"`
	BlockSize   []uint32                    `json:"blockSize"`
	DataType    DataType                    `json:"dataType"`
	Compression compression.CompressionType `json:"compression"`
}

// MarshalJSON renders the dataset's mandatory attributes in N5's
// camelCase form. Arbitrary user-defined keys on the node are not part
// of this type; they are preserved by the container's JSON-merge layer.
func (a DatasetAttributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(datasetAttributesJSON{
		Dimensions:  a.Dimensions,
		BlockSize:   a.BlockSize,
		DataType:    a.DataType,
		Compression: a.Compression,
	})
}

// UnmarshalJSON parses the camelCase form and validates the
// dimensions/blockSize length invariant.
func (a *DatasetAttributes) UnmarshalJSON(b []byte) error {
	var raw datasetAttributesJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	parsed, err := NewDatasetAttributes(raw.Dimensions, raw.BlockSize, raw.DataType, raw.Compression)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
