package filesystem

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/n5lib/n5"
)

const attributesFileName = "attributes.json"

// resolvePath maps a container-relative path to an OS path rooted at
// basePath, rejecting anything that would escape the root (§4.6).
//
// Containment is checked component-wise without touching the filesystem:
// walk components left to right, +1 for a normal name, -1 for a parent
// reference, ignoring "." components; if the running count ever drops
// below zero, reject. The final count need not be zero — interior
// back-references are fine as long as they never escape. Container paths
// are always forward-slash delimited regardless of host OS; joining onto
// basePath uses the host separator.
func resolvePath(basePath, pathName string) (string, error) {
	if strings.HasPrefix(pathName, "/") {
		return "", fmt.Errorf("%w: %q is an absolute path", n5.ErrNotFound, pathName)
	}

	depth := 0
	for _, component := range strings.Split(pathName, "/") {
		switch component {
		case "", ".":
			continue
		case "..":
			depth--
		default:
			depth++
		}
		if depth < 0 {
			return "", fmt.Errorf("%w: %q escapes the container root", n5.ErrNotFound, pathName)
		}
	}

	if pathName == "" {
		return basePath, nil
	}
	return filepath.Join(basePath, filepath.FromSlash(pathName)), nil
}

// blockPath returns the file path for a block at gridPosition within the
// dataset at pathName: root/<path>/<g0>/<g1>/.../<g_{n-1}>, each
// coordinate formatted as its decimal string (§4.6).
func blockPath(basePath, pathName string, gridPosition []uint64) (string, error) {
	base, err := resolvePath(basePath, pathName)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(gridPosition))
	for i, g := range gridPosition {
		parts[i] = strconv.FormatUint(g, 10)
	}
	return filepath.Join(append([]string{base}, parts...)...), nil
}

func attributesPath(basePath, pathName string) (string, error) {
	base, err := resolvePath(basePath, pathName)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, attributesFileName), nil
}
