package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// List returns the names of a node's child groups/datasets: subdirectory
// names only, not attributes.json or block files (§4.4).
func (fs5 *N5Filesystem) List(pathName string) ([]string, error) {
	resolved, err := resolvePath(fs5.basePath, pathName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("n5: listing %s: %w", pathName, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Remove recursively deletes a node. Every contained block file is
// exclusively locked before being unlinked, so the call blocks behind
// any reader or writer already holding that file open (§4.7).
func (fs5 *N5Filesystem) Remove(pathName string) error {
	resolved, err := resolvePath(fs5.basePath, pathName)
	if err != nil {
		return err
	}
	return removeLocked(resolved)
}

// RemoveAll deletes the entire container, including its root directory.
func (fs5 *N5Filesystem) RemoveAll() error {
	return removeLocked(fs5.basePath)
}

func removeLocked(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("n5: statting %s: %w", root, err)
	}
	if !info.IsDir() {
		return lockAndRemove(root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return lockAndRemove(path)
	})
	if err != nil {
		return fmt.Errorf("n5: removing contents of %s: %w", root, err)
	}

	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("n5: removing %s: %w", root, err)
	}
	return nil
}

// lockAndRemove takes an exclusive lock on path, blocking until any
// concurrent reader or writer releases it, then unlinks it.
func lockAndRemove(path string) error {
	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("n5: locking %s: %w", path, err)
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("n5: removing %s: %w", path, err)
	}
	return nil
}
