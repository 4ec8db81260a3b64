// Package n5 implements the core of the N5 tensor-container format: a
// hierarchical, chunked, n-dimensional array store compatible with the
// Java N5 on-disk layout. It defines the block wire codec, the dataset
// attribute schema and derived geometry, the container reader/writer
// contracts, and the type reflection layer that binds a DataType tag to
// a fixed-width primitive.
//
// Compression codecs, a concrete backend, and any logging are left to
// subpackages and callers: this package, like the format it implements,
// performs no I/O of its own and writes nothing to stderr or stdout.
package n5

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// VersionAttributeKey is the key under which the container version is
// stored in the root node's attributes.json.
const VersionAttributeKey = "n5"

// Version is the semver of the N5 specification a container claims to
// implement.
var Version = MustParseVersion("2.1.3")

// SemVer holds a parsed major.minor.patch version string.
type SemVer struct {
	Major, Minor, Patch int
}

// String renders the version in major.minor.patch form.
func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsCompatible reports whether a container carrying version v can be
// read/written by a library claiming version `lib` (§4.8): the
// container's major version must not exceed the library's, and
// minor/patch drift is accepted either way.
func (v SemVer) IsCompatible(lib SemVer) bool {
	return v.Major <= lib.Major
}

// ParseVersion parses a "major.minor.patch" string. It fails on anything
// that isn't a valid semver core (spec.md mandates failure rather than
// silently treating an unparseable version as empty, to avoid masking
// corruption).
func ParseVersion(s string) (SemVer, error) {
	if !semver.IsValid("v" + s) {
		return SemVer{}, fmt.Errorf("%w: %q is not a valid semver", ErrInvalidData, s)
	}

	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return SemVer{}, fmt.Errorf("%w: %q is not a valid semver", ErrInvalidData, s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return SemVer{}, fmt.Errorf("%w: %q is not a valid semver: %v", ErrInvalidData, s, err)
		}
		nums[i] = n
	}

	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParseVersion is like ParseVersion but panics on error; it exists
// only to build the package-level Version constant from a literal.
func MustParseVersion(s string) SemVer {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// DataBlockMetadata is best-effort timestamp and size information about
// a stored block, as reported by the backend.
type DataBlockMetadata struct {
	Created  time.Time
	Accessed time.Time
	Modified time.Time
	Size     int64
}
