// Package fsadapter exposes an N5 container's group hierarchy as a
// read-only io/fs.FS: each group/dataset is a directory, and each directory
// carries a synthetic "attributes.json" file holding that node's
// attributes encoding.
package fsadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/n5lib/n5"
)

type adapter struct {
	container n5.Lister
}

// FS adapts an n5.Lister into a read-only io/fs.FS rooted at the
// container's root group.
func FS(container n5.Lister) fs.FS {
	return &adapter{container: container}
}

func (a *adapter) Open(name string) (fs.File, error) {
	if name == "." {
		return a.openDir("")
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	dir, base := path.Split(name)
	dir = path.Clean(dir)
	if dir == "." {
		dir = ""
	}

	if base == attributesFileName {
		return a.openAttributes(dir)
	}
	if a.container.Exists(name) {
		return a.openDir(name)
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

const attributesFileName = "attributes.json"

type attributesFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *attributesFile) Stat() (fs.FileInfo, error) {
	return fileInfo{name: attributesFileName, size: f.size}, nil
}
func (f *attributesFile) Close() error { return nil }

func (a *adapter) openAttributes(groupPath string) (fs.File, error) {
	attrs, err := a.container.ListAttributes(groupPath)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: groupPath, Err: err}
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: groupPath, Err: err}
	}
	return &attributesFile{Reader: bytes.NewReader(encoded), size: int64(len(encoded))}, nil
}

type dirFile struct {
	name    string
	entries []fs.DirEntry
	offset  int
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return fileInfo{name: d.name, isDir: true}, nil }
func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}
func (d *dirFile) Close() error { return nil }
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if n <= 0 {
		out := d.entries[d.offset:]
		d.offset = len(d.entries)
		return out, nil
	}
	end := d.offset + n
	if end > len(d.entries) {
		end = len(d.entries)
	}
	out := d.entries[d.offset:end]
	d.offset = end
	if len(out) == 0 && n > 0 {
		return out, io.EOF
	}
	return out, nil
}

func (a *adapter) openDir(groupPath string) (fs.File, error) {
	children, err := a.container.List(groupPath)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: groupPath, Err: err}
	}
	sort.Strings(children)

	entries := make([]fs.DirEntry, 0, len(children)+1)
	entries = append(entries, dirEntry{fileInfo{name: attributesFileName}})
	for _, name := range children {
		entries = append(entries, dirEntry{fileInfo{name: name, isDir: true}})
	}

	name := groupPath
	if name == "" {
		name = "."
	}
	return &dirFile{name: name, entries: entries}, nil
}

type fileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode {
	if fi.isDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.isDir }
func (fi fileInfo) Sys() any           { return nil }

type dirEntry struct{ fi fileInfo }

func (e dirEntry) Name() string               { return e.fi.name }
func (e dirEntry) IsDir() bool                { return e.fi.isDir }
func (e dirEntry) Type() fs.FileMode          { return e.fi.Mode().Type() }
func (e dirEntry) Info() (fs.FileInfo, error) { return e.fi, nil }
