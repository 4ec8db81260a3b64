// Package filesystem implements the canonical N5 backend: a container
// rooted at a directory on the local filesystem, with one subdirectory
// per group/dataset, an attributes.json sidecar per node, and one file
// per block (§4.7).
package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/n5lib/n5"
)

// N5Filesystem is a handle to an N5 container rooted at a directory. It
// owns no open file handles between calls; every operation opens,
// locks, operates, and closes.
type N5Filesystem struct {
	basePath string
}

var (
	_ n5.Reader = (*N5Filesystem)(nil)
	_ n5.Lister = (*N5Filesystem)(nil)
	_ n5.Writer = (*N5Filesystem)(nil)
)

// Open opens an existing container at basePath. It fails if basePath
// does not exist, or if it exists but carries an incompatible version.
func Open(basePath string) (*N5Filesystem, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", n5.ErrNotFound, basePath)
		}
		return nil, fmt.Errorf("n5: stat %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", n5.ErrNotFound, basePath)
	}

	fs := &N5Filesystem{basePath: basePath}
	version, err := fs.GetVersion()
	if err != nil {
		return nil, err
	}
	if !version.IsCompatible(n5.Version) {
		return nil, fmt.Errorf("%w: container version %s, library version %s", n5.ErrIncompatible, version, n5.Version)
	}
	return fs, nil
}

// OpenOrCreate opens a container at basePath, creating the root
// directory and writing the library's version attribute if it is not
// already present. If a version attribute is present and incompatible,
// it fails without modifying anything (§4.7).
func OpenOrCreate(basePath string) (*N5Filesystem, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("n5: creating %s: %w", basePath, err)
	}

	fs := &N5Filesystem{basePath: basePath}

	version, err := fs.GetVersion()
	switch {
	case err == nil:
		if !version.IsCompatible(n5.Version) {
			return nil, fmt.Errorf("%w: container version %s, library version %s", n5.ErrIncompatible, version, n5.Version)
		}
	case errors.Is(err, n5.ErrNotFound):
		if err := fs.SetAttribute("", n5.VersionAttributeKey, n5.Version.String()); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return fs, nil
}

// GetVersion reads the n5 attribute at the container root (§4.4).
func (fs *N5Filesystem) GetVersion() (n5.SemVer, error) {
	attrs, err := fs.ListAttributes("")
	if err != nil {
		return n5.SemVer{}, err
	}

	raw, ok := attrs[n5.VersionAttributeKey]
	if !ok {
		return n5.SemVer{}, fmt.Errorf("%w: version attribute not present", n5.ErrNotFound)
	}
	s, ok := raw.(string)
	if !ok {
		return n5.SemVer{}, fmt.Errorf("%w: version attribute is not a string", n5.ErrInvalidData)
	}
	return n5.ParseVersion(s)
}

// GetDatasetAttributes parses the node's attributes.json as a dataset
// (§4.4).
func (fs *N5Filesystem) GetDatasetAttributes(pathName string) (n5.DatasetAttributes, error) {
	attrPath, err := attributesPath(fs.basePath, pathName)
	if err != nil {
		return n5.DatasetAttributes{}, err
	}

	f, err := os.Open(attrPath)
	if err != nil {
		if os.IsNotExist(err) {
			return n5.DatasetAttributes{}, fmt.Errorf("%w: %s has no attributes.json", n5.ErrNotFound, pathName)
		}
		return n5.DatasetAttributes{}, fmt.Errorf("n5: opening %s: %w", attrPath, err)
	}
	defer f.Close()

	var attrs n5.DatasetAttributes
	if err := json.NewDecoder(f).Decode(&attrs); err != nil {
		return n5.DatasetAttributes{}, err
	}
	return attrs, nil
}

// Exists reports whether a node is present (§4.4, §4.7: true iff the
// resolved path is a directory).
func (fs *N5Filesystem) Exists(pathName string) bool {
	resolved, err := resolvePath(fs.basePath, pathName)
	if err != nil {
		return false
	}
	info, err := os.Stat(resolved)
	return err == nil && info.IsDir()
}

// DatasetExists reports whether a node is present and its attributes
// parse as a dataset (§4.4).
func (fs *N5Filesystem) DatasetExists(pathName string) bool {
	if !fs.Exists(pathName) {
		return false
	}
	_, err := fs.GetDatasetAttributes(pathName)
	return err == nil
}

// GetBlockURI returns the absolute filesystem path of a block (§4.4).
func (fs *N5Filesystem) GetBlockURI(pathName string, gridPosition []uint64) (string, error) {
	return blockPath(fs.basePath, pathName, gridPosition)
}

// ListAttributes returns the node's raw attributes.json object (§4.4).
func (fs *N5Filesystem) ListAttributes(pathName string) (map[string]any, error) {
	attrPath, err := attributesPath(fs.basePath, pathName)
	if err != nil {
		return nil, err
	}
	return readAttributesFile(attrPath)
}

// SetAttribute deep-merges a single key/value pair (§4.5).
func (fs *N5Filesystem) SetAttribute(pathName, key string, value any) error {
	return fs.SetAttributes(pathName, map[string]any{key: value})
}

// SetAttributes deep-merges a map of attributes (§4.5).
func (fs *N5Filesystem) SetAttributes(pathName string, attributes map[string]any) error {
	attrPath, err := attributesPath(fs.basePath, pathName)
	if err != nil {
		return err
	}
	merged, err := toAnyMap(attributes)
	if err != nil {
		return err
	}
	return writeAttributesFile(attrPath, merged)
}

// SetDatasetAttributes serializes attrs and deep-merges it (§4.4).
func (fs *N5Filesystem) SetDatasetAttributes(pathName string, attrs n5.DatasetAttributes) error {
	m, err := toAnyMap(attrs)
	if err != nil {
		return err
	}
	return fs.SetAttributes(pathName, m)
}

// CreateGroup ensures a node (directory) exists (§4.4).
func (fs *N5Filesystem) CreateGroup(pathName string) error {
	resolved, err := resolvePath(fs.basePath, pathName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return fmt.Errorf("n5: creating group %s: %w", pathName, err)
	}
	return nil
}

// CreateDataset creates the dataset's group and sets its attributes
// (§4.4).
func (fs *N5Filesystem) CreateDataset(pathName string, attrs n5.DatasetAttributes) error {
	if err := fs.CreateGroup(pathName); err != nil {
		return err
	}
	return fs.SetDatasetAttributes(pathName, attrs)
}
