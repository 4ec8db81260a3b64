package n5

import "errors"

// Sentinel errors classify the failure kinds a container operation can
// produce. Callers use errors.Is against these; I/O and codec failures
// are wrapped with context via %w, so the underlying error stays
// reachable through errors.Is/errors.As.
var (
	// ErrNotFound is returned when a node, the version attribute, or a
	// path component does not exist.
	ErrNotFound = errors.New("n5: not found")

	// ErrInvalidInput is returned when the caller's request is
	// structurally wrong for the dataset it targets: a type mismatch on
	// read, or a dimensions/blockSize length mismatch.
	ErrInvalidInput = errors.New("n5: invalid input")

	// ErrInvalidData is returned when on-disk content cannot be
	// interpreted: an unsupported block mode, unparseable JSON, or a
	// malformed version string.
	ErrInvalidData = errors.New("n5: invalid data")

	// ErrIncompatible is returned when a container's version attribute
	// has a newer major version than this library supports.
	ErrIncompatible = errors.New("n5: incompatible version")
)
