// Package n5test provides an in-memory n5.Writer/n5.Lister fixture for
// exercising container consumers without touching disk.
package n5test

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/n5lib/n5"
)

type node struct {
	attributes map[string]any
	children   map[string]*node
	blocks     map[string][]byte
}

func newNode() *node {
	return &node{
		attributes: map[string]any{},
		children:   map[string]*node{},
		blocks:     map[string][]byte{},
	}
}

// MemContainer is a goroutine-safe, in-memory N5 container backend. The
// zero value is not usable; use New.
type MemContainer struct {
	mu   sync.Mutex
	root *node
}

var (
	_ n5.Reader = (*MemContainer)(nil)
	_ n5.Lister = (*MemContainer)(nil)
	_ n5.Writer = (*MemContainer)(nil)
)

// New returns an empty container with the library's version attribute
// already set at the root, matching OpenOrCreate's on-disk behavior.
func New() *MemContainer {
	c := &MemContainer{root: newNode()}
	c.root.attributes[n5.VersionAttributeKey] = n5.Version.String()
	return c
}

func splitPath(pathName string) []string {
	if pathName == "" {
		return nil
	}
	return strings.Split(pathName, "/")
}

func blockKey(gridPosition []uint64) string {
	parts := make([]string, len(gridPosition))
	for i, g := range gridPosition {
		parts[i] = strconv.FormatUint(g, 10)
	}
	return strings.Join(parts, "/")
}

func (c *MemContainer) find(pathName string) *node {
	n := c.root
	for _, component := range splitPath(pathName) {
		if component == "" {
			continue
		}
		child, ok := n.children[component]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func (c *MemContainer) findOrCreate(pathName string) *node {
	n := c.root
	for _, component := range splitPath(pathName) {
		if component == "" {
			continue
		}
		child, ok := n.children[component]
		if !ok {
			child = newNode()
			n.children[component] = child
		}
		n = child
	}
	return n
}

func (c *MemContainer) GetVersion() (n5.SemVer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.root.attributes[n5.VersionAttributeKey]
	if !ok {
		return n5.SemVer{}, fmt.Errorf("%w: version attribute not present", n5.ErrNotFound)
	}
	s, ok := raw.(string)
	if !ok {
		return n5.SemVer{}, fmt.Errorf("%w: version attribute is not a string", n5.ErrInvalidData)
	}
	return n5.ParseVersion(s)
}

func (c *MemContainer) GetDatasetAttributes(pathName string) (n5.DatasetAttributes, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.find(pathName)
	if n == nil {
		return n5.DatasetAttributes{}, fmt.Errorf("%w: %s", n5.ErrNotFound, pathName)
	}

	var attrs n5.DatasetAttributes
	encoded, err := jsonRoundTrip(n.attributes)
	if err != nil {
		return n5.DatasetAttributes{}, err
	}
	if err := jsonUnmarshal(encoded, &attrs); err != nil {
		return n5.DatasetAttributes{}, err
	}
	return attrs, nil
}

func (c *MemContainer) Exists(pathName string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(pathName) != nil
}

func (c *MemContainer) DatasetExists(pathName string) bool {
	if !c.Exists(pathName) {
		return false
	}
	_, err := c.GetDatasetAttributes(pathName)
	return err == nil
}

func (c *MemContainer) GetBlockURI(pathName string, gridPosition []uint64) (string, error) {
	return fmt.Sprintf("mem://%s/%s", pathName, blockKey(gridPosition)), nil
}

func (c *MemContainer) BlockMetadata(pathName string, _ n5.DatasetAttributes, gridPosition []uint64) (n5.DataBlockMetadata, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.find(pathName)
	if n == nil {
		return n5.DataBlockMetadata{}, false, nil
	}
	data, ok := n.blocks[blockKey(gridPosition)]
	if !ok {
		return n5.DataBlockMetadata{}, false, nil
	}
	return n5.DataBlockMetadata{Size: int64(len(data))}, true, nil
}

func (c *MemContainer) ListAttributes(pathName string) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.find(pathName)
	if n == nil {
		return map[string]any{}, nil
	}
	out := map[string]any{}
	for k, v := range n.attributes {
		out[k] = v
	}
	return out, nil
}

func (c *MemContainer) List(pathName string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.find(pathName)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", n5.ErrNotFound, pathName)
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *MemContainer) SetAttribute(pathName, key string, value any) error {
	return c.SetAttributes(pathName, map[string]any{key: value})
}

func (c *MemContainer) SetAttributes(pathName string, attributes map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.findOrCreate(pathName)
	mergeInto(n.attributes, attributes)
	return nil
}

func (c *MemContainer) SetDatasetAttributes(pathName string, attrs n5.DatasetAttributes) error {
	m, err := toAnyMap(attrs)
	if err != nil {
		return err
	}
	return c.SetAttributes(pathName, m)
}

func (c *MemContainer) CreateGroup(pathName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findOrCreate(pathName)
	return nil
}

func (c *MemContainer) CreateDataset(pathName string, attrs n5.DatasetAttributes) error {
	if err := c.CreateGroup(pathName); err != nil {
		return err
	}
	return c.SetDatasetAttributes(pathName, attrs)
}

func (c *MemContainer) Remove(pathName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	components := splitPath(pathName)
	if len(components) == 0 {
		c.root = newNode()
		return nil
	}
	parent := c.root
	for _, component := range components[:len(components)-1] {
		child, ok := parent.children[component]
		if !ok {
			return nil
		}
		parent = child
	}
	delete(parent.children, components[len(components)-1])
	return nil
}

func (c *MemContainer) RemoveAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = newNode()
	return nil
}

func (c *MemContainer) DeleteBlock(pathName string, gridPosition []uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.find(pathName)
	if n == nil {
		return true, nil
	}
	delete(n.blocks, blockKey(gridPosition))
	return true, nil
}

type memReadCloser struct{ *bytes.Reader }

func (memReadCloser) Close() error { return nil }

func (c *MemContainer) OpenBlockForRead(pathName string, gridPosition []uint64) (io.ReadCloser, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.find(pathName)
	if n == nil {
		return nil, false, nil
	}
	data, ok := n.blocks[blockKey(gridPosition)]
	if !ok {
		return nil, false, nil
	}
	return memReadCloser{bytes.NewReader(data)}, true, nil
}

type memWriteCloser struct {
	buf  bytes.Buffer
	done func([]byte)
}

func (w *memWriteCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *memWriteCloser) Close() error {
	w.done(w.buf.Bytes())
	return nil
}

func (c *MemContainer) OpenBlockForWrite(pathName string, gridPosition []uint64) (io.WriteCloser, error) {
	key := blockKey(gridPosition)
	return &memWriteCloser{
		done: func(data []byte) {
			c.mu.Lock()
			defer c.mu.Unlock()
			n := c.findOrCreate(pathName)
			stored := make([]byte, len(data))
			copy(stored, data)
			n.blocks[key] = stored
		},
	}, nil
}
