package n5

import (
	"fmt"
	"io"
)

// Compression is the streaming contract the block codec consumes: an
// encoder wraps the block's payload writer, a decoder wraps its payload
// reader. The algorithms themselves are out of scope for this package;
// see the compression subpackage for the concrete adapters.
type Compression interface {
	Encoder(w io.Writer) (io.WriteCloser, error)
	Decoder(r io.Reader) (io.Reader, error)
}

// BlockHeader describes a block in flight during encode/decode: its
// per-axis extents (which may be smaller than the dataset's block size at
// grid edges), its grid position, and the element count carried by the
// payload (which may be less than the product of size in varlength mode).
type BlockHeader struct {
	Size         []uint32
	GridPosition []uint64
	NumEl        uint32
}

// NumElementsFromSize returns the product of Size, i.e. the element count
// a full (non-varlength) block of this header would carry.
func (h BlockHeader) NumElementsFromSize() uint32 {
	n := uint32(1)
	for _, s := range h.Size {
		n *= s
	}
	return n
}

// Block is an in-memory block of element type T: a rectangular sub-tile
// of a dataset identified by its grid position. A Block neither knows nor
// references the container it came from or will be written to; the same
// Block may be moved between containers as long as the dataset
// attributes agree (§3).
//
// Data is a plain Go slice, which already unifies the owning/borrowing
// split the reference implementation expresses as two block shapes: a
// freshly decoded Block owns its slice, while a caller may construct one
// directly over a buffer it already owns to get "borrowing" semantics.
type Block[T Numeric] struct {
	Size         []uint32
	GridPosition []uint64
	Data         []T
}

// NewBlock constructs a block over data. The slice is stored as-is, not
// copied, so the block and the caller share the same buffer.
func NewBlock[T Numeric](size []uint32, gridPosition []uint64, data []T) *Block[T] {
	return &Block[T]{Size: size, GridPosition: gridPosition, Data: data}
}

// newBlockForHeader is the statically-typed block construction entry
// point of §4.1: given a BlockHeader, it returns an owning block of
// NumEl zero-initialized elements of type T.
func newBlockForHeader[T Numeric](h BlockHeader) *Block[T] {
	return &Block[T]{
		Size:         h.Size,
		GridPosition: h.GridPosition,
		Data:         make([]T, h.NumEl),
	}
}

// Reinitialize resizes and repositions an existing (caller-owned) block
// to match header, for reuse by ReadBlockInto-style callers (§4.4).
func (b *Block[T]) Reinitialize(h BlockHeader) {
	b.Size = h.Size
	b.GridPosition = h.GridPosition
	if cap(b.Data) >= int(h.NumEl) {
		b.Data = b.Data[:h.NumEl]
	} else {
		b.Data = make([]T, h.NumEl)
	}
}

// Header returns the wire header this block would encode to.
func (b *Block[T]) Header() BlockHeader {
	return BlockHeader{Size: b.Size, GridPosition: b.GridPosition, NumEl: uint32(len(b.Data))}
}

// readBlockHeader decodes the mode/ndim/size/(numEl) prefix described in
// spec.md §4.2. gridPosition is supplied by the caller (it's not part of
// the wire format — the grid position is implied by the block's path).
func readBlockHeader(r io.Reader, gridPosition []uint64) (BlockHeader, error) {
	var modeBuf [2]byte
	if _, err := io.ReadFull(r, modeBuf[:]); err != nil {
		return BlockHeader{}, err
	}
	mode := uint16(modeBuf[0])<<8 | uint16(modeBuf[1])

	var ndimBuf [2]byte
	if _, err := io.ReadFull(r, ndimBuf[:]); err != nil {
		return BlockHeader{}, err
	}
	ndim := uint16(ndimBuf[0])<<8 | uint16(ndimBuf[1])

	size := make([]uint32, ndim)
	if err := readElements[uint32](r, size); err != nil {
		return BlockHeader{}, err
	}

	var numEl uint32
	switch mode {
	case 0:
		numEl = 1
		for _, s := range size {
			numEl *= s
		}
	case 1:
		var numElBuf [4]byte
		if _, err := io.ReadFull(r, numElBuf[:]); err != nil {
			return BlockHeader{}, err
		}
		numEl = uint32(numElBuf[0])<<24 | uint32(numElBuf[1])<<16 | uint32(numElBuf[2])<<8 | uint32(numElBuf[3])
	default:
		return BlockHeader{}, fmt.Errorf("%w: unsupported block mode %d", ErrInvalidData, mode)
	}

	return BlockHeader{Size: size, GridPosition: gridPosition, NumEl: numEl}, nil
}

// DecodeBlock reads a full block (header + compressed payload) from r per
// §4.2. The caller's element type T must equal attrs.DataType.
func DecodeBlock[T Numeric](r io.Reader, attrs DatasetAttributes, gridPosition []uint64) (*Block[T], error) {
	if TypeOf[T]() != attrs.DataType {
		return nil, fmt.Errorf("%w: block element type does not match dataset data type %s", ErrInvalidInput, attrs.DataType)
	}

	header, err := readBlockHeader(r, gridPosition)
	if err != nil {
		return nil, err
	}

	block := newBlockForHeader[T](header)
	if err := decodeBlockPayload(r, attrs, block.Data); err != nil {
		return nil, err
	}
	return block, nil
}

// DecodeBlockInto is like DecodeBlock but reuses a caller-owned block,
// reinitializing it to the decoded header before filling it (§4.4
// readBlockInto).
func DecodeBlockInto[T Numeric](r io.Reader, attrs DatasetAttributes, gridPosition []uint64, block *Block[T]) error {
	if TypeOf[T]() != attrs.DataType {
		return fmt.Errorf("%w: block element type does not match dataset data type %s", ErrInvalidInput, attrs.DataType)
	}

	header, err := readBlockHeader(r, gridPosition)
	if err != nil {
		return err
	}

	block.Reinitialize(header)
	return decodeBlockPayload(r, attrs, block.Data)
}

func decodeBlockPayload[T Numeric](r io.Reader, attrs DatasetAttributes, data []T) error {
	decoder, err := attrs.Compression.Decoder(r)
	if err != nil {
		return fmt.Errorf("n5: compression decoder: %w", err)
	}
	if err := readElements(decoder, data); err != nil {
		return fmt.Errorf("n5: reading block payload: %w", err)
	}
	return nil
}

// EncodeBlock writes a block's header and compression-framed payload to w
// per §4.2. ndim is taken from attrs, not len(block.Size) — the caller is
// responsible for the two agreeing. The compression encoder is flushed
// before EncodeBlock returns so that trailing bytes are part of the
// written stream.
func EncodeBlock[T Numeric](w io.Writer, attrs DatasetAttributes, block *Block[T]) error {
	mode := uint16(0)
	if uint32(len(block.Data)) != block.Header().NumElementsFromSize() {
		mode = 1
	}

	header := make([]byte, 0, 4+4*len(block.Size))
	header = append(header, byte(mode>>8), byte(mode))
	ndim := uint16(attrs.NDim())
	header = append(header, byte(ndim>>8), byte(ndim))
	for _, s := range block.Size {
		header = append(header, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
	}
	if mode != 0 {
		n := uint32(len(block.Data))
		header = append(header, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("n5: writing block header: %w", err)
	}

	encoder, err := attrs.Compression.Encoder(w)
	if err != nil {
		return fmt.Errorf("n5: compression encoder: %w", err)
	}
	if err := writeElements(encoder, block.Data); err != nil {
		return fmt.Errorf("n5: writing block payload: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("n5: finalizing block payload: %w", err)
	}
	return nil
}
