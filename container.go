package n5

import (
	"fmt"
	"io"
)

// Reader is the read-only capability set any N5 container backend must
// satisfy (§4.4).
type Reader interface {
	// GetVersion reads the n5 attribute at the container root.
	GetVersion() (SemVer, error)

	// GetDatasetAttributes parses the node's attributes.json as a
	// dataset.
	GetDatasetAttributes(path string) (DatasetAttributes, error)

	// Exists reports whether a node is present.
	Exists(path string) bool

	// DatasetExists reports whether a node is present and its
	// attributes parse as a dataset.
	DatasetExists(path string) bool

	// GetBlockURI returns a stable, backend-defined identifier for a
	// block (for a filesystem backend, its absolute path).
	GetBlockURI(path string, gridPosition []uint64) (string, error)

	// BlockMetadata returns best-effort timestamp and size information
	// for a block, or (zero, false, nil) if the block does not exist.
	BlockMetadata(path string, attrs DatasetAttributes, gridPosition []uint64) (DataBlockMetadata, bool, error)

	// ListAttributes returns the node's raw attributes.json object.
	ListAttributes(path string) (map[string]any, error)

	// OpenBlockForRead opens a block file for decoding under a shared
	// lock. ok is false iff the block file does not exist; the caller
	// must Close the returned reader (which releases the lock).
	//
	// Go has no generic methods, so the typed ReadBlock/ReadBlockInto
	// entry points of §4.4 are package-level functions built on top of
	// this non-generic file handle, rather than interface methods.
	OpenBlockForRead(path string, gridPosition []uint64) (r io.ReadCloser, ok bool, err error)
}

// Lister extends Reader with child-node enumeration.
type Lister interface {
	Reader

	// List returns the names of a node's child nodes, in
	// backend-determined order.
	List(path string) ([]string, error)
}

// Writer extends Reader with mutating operations.
type Writer interface {
	Reader

	// SetAttribute deep-merges a single key/value pair into the node's
	// attributes.json (§4.5).
	SetAttribute(path, key string, value any) error

	// SetAttributes deep-merges a map into the node's attributes.json.
	SetAttributes(path string, attributes map[string]any) error

	// SetDatasetAttributes serializes attrs and deep-merges it into the
	// node's attributes.json.
	SetDatasetAttributes(path string, attrs DatasetAttributes) error

	// CreateGroup ensures a node exists.
	CreateGroup(path string) error

	// CreateDataset ensures a node exists and sets its dataset
	// attributes.
	CreateDataset(path string, attrs DatasetAttributes) error

	// Remove recursively deletes a node (directory and all contained
	// files), waiting on any outstanding locks on contained files.
	Remove(path string) error

	// RemoveAll deletes the entire container.
	RemoveAll() error

	// DeleteBlock removes a block file. It is idempotent: returns true
	// whether the block existed or was already absent.
	DeleteBlock(path string, gridPosition []uint64) (bool, error)

	// OpenBlockForWrite opens a block file for encoding under an
	// exclusive lock, creating any missing parent directories. The
	// caller must Close the returned writer (which flushes and releases
	// the lock).
	OpenBlockForWrite(path string, gridPosition []uint64) (w io.WriteCloser, err error)
}

// ReadBlock reads a single dataset block, or (nil, nil) if the block
// file does not exist (§4.4).
func ReadBlock[T Numeric](r Reader, path string, attrs DatasetAttributes, gridPosition []uint64) (*Block[T], error) {
	rc, ok, err := r.OpenBlockForRead(path, gridPosition)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	defer rc.Close()

	return DecodeBlock[T](rc, attrs, gridPosition)
}

// ReadBlockInto is like ReadBlock but reuses a caller-owned block
// buffer. It returns (false, nil) if the block file does not exist.
func ReadBlockInto[T Numeric](r Reader, path string, attrs DatasetAttributes, gridPosition []uint64, block *Block[T]) (bool, error) {
	rc, ok, err := r.OpenBlockForRead(path, gridPosition)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	defer rc.Close()

	if err := DecodeBlockInto[T](rc, attrs, gridPosition, block); err != nil {
		return false, err
	}
	return true, nil
}

// WriteBlock encodes and writes a single dataset block (§4.4).
func WriteBlock[T Numeric](w Writer, path string, attrs DatasetAttributes, block *Block[T]) error {
	wc, err := w.OpenBlockForWrite(path, block.GridPosition)
	if err != nil {
		return err
	}

	if err := EncodeBlock(wc, attrs, block); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("n5: closing block file: %w", err)
	}
	return nil
}
