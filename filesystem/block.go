package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	times "gopkg.in/djherbis/times.v1"

	"github.com/n5lib/n5"
)

// lockedReadCloser releases its shared lock when the underlying file is
// closed, so callers driving n5.ReadBlock never need to know a lock was
// involved.
type lockedReadCloser struct {
	*os.File
	lock *flock.Flock
}

func (l *lockedReadCloser) Close() error {
	err := l.File.Close()
	if unlockErr := l.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// lockedWriteCloser finalizes like lockedReadCloser, but for writers:
// flushing/closing the file must happen before the exclusive lock is
// released, so a concurrent reader never observes a half-written block.
type lockedWriteCloser struct {
	*os.File
	lock *flock.Flock
}

func (l *lockedWriteCloser) Close() error {
	err := l.File.Close()
	if unlockErr := l.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// OpenBlockForRead opens a block file under a shared lock (§4.7). ok is
// false iff the block does not exist.
func (fs *N5Filesystem) OpenBlockForRead(pathName string, gridPosition []uint64) (io.ReadCloser, bool, error) {
	blockFile, err := blockPath(fs.basePath, pathName, gridPosition)
	if err != nil {
		return nil, false, err
	}

	f, err := os.Open(blockFile)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("n5: opening block %s: %w", blockFile, err)
	}

	lock := flock.New(blockFile)
	if err := lock.RLock(); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("n5: locking block %s: %w", blockFile, err)
	}

	return &lockedReadCloser{File: f, lock: lock}, true, nil
}

// OpenBlockForWrite opens a block file under an exclusive lock, creating
// any missing parent directories first (§4.7).
func (fs *N5Filesystem) OpenBlockForWrite(pathName string, gridPosition []uint64) (io.WriteCloser, error) {
	blockFile, err := blockPath(fs.basePath, pathName, gridPosition)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(blockFile), 0o755); err != nil {
		return nil, fmt.Errorf("n5: creating block directory for %s: %w", blockFile, err)
	}

	f, err := os.OpenFile(blockFile, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("n5: opening block %s: %w", blockFile, err)
	}

	lock := flock.New(blockFile)
	if err := lock.Lock(); err != nil {
		f.Close()
		return nil, fmt.Errorf("n5: locking block %s: %w", blockFile, err)
	}

	// Truncate only once the exclusive lock is held, so a reader holding
	// the shared lock never sees the old content cut short.
	if err := f.Truncate(0); err != nil {
		f.Close()
		lock.Unlock()
		return nil, fmt.Errorf("n5: truncating block %s: %w", blockFile, err)
	}

	return &lockedWriteCloser{File: f, lock: lock}, nil
}

// BlockMetadata reports a block's size and filesystem timestamps, or
// (zero, false, nil) if the block file does not exist (§4.4).
func (fs *N5Filesystem) BlockMetadata(pathName string, attrs n5.DatasetAttributes, gridPosition []uint64) (n5.DataBlockMetadata, bool, error) {
	blockFile, err := blockPath(fs.basePath, pathName, gridPosition)
	if err != nil {
		return n5.DataBlockMetadata{}, false, err
	}

	t, err := times.Stat(blockFile)
	if os.IsNotExist(err) {
		return n5.DataBlockMetadata{}, false, nil
	}
	if err != nil {
		return n5.DataBlockMetadata{}, false, fmt.Errorf("n5: statting block %s: %w", blockFile, err)
	}

	info, err := os.Stat(blockFile)
	if err != nil {
		return n5.DataBlockMetadata{}, false, fmt.Errorf("n5: statting block %s: %w", blockFile, err)
	}

	meta := n5.DataBlockMetadata{
		Modified: t.ModTime(),
		Size:     info.Size(),
	}
	switch {
	case t.HasBirthTime():
		meta.Created = t.BirthTime()
	case t.HasChangeTime():
		meta.Created = t.ChangeTime()
	default:
		meta.Created = t.ModTime()
	}
	if t.HasAccessTime() {
		meta.Accessed = t.AccessTime()
	} else {
		meta.Accessed = t.ModTime()
	}
	return meta, true, nil
}

// DeleteBlock removes a block file. It is idempotent: a missing block
// is not an error (§4.4).
func (fs *N5Filesystem) DeleteBlock(pathName string, gridPosition []uint64) (bool, error) {
	blockFile, err := blockPath(fs.basePath, pathName, gridPosition)
	if err != nil {
		return false, err
	}

	lock := flock.New(blockFile)
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	}

	if err := os.Remove(blockFile); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("n5: removing block %s: %w", blockFile, err)
	}
	return true, nil
}
