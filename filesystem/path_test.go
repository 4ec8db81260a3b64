package filesystem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathAcceptsContainedPaths(t *testing.T) {
	cases := []string{
		"",
		"a",
		"a/b/c",
		"a/../a/b",
		"a/./b",
	}
	for _, c := range cases {
		_, err := resolvePath("/root", c)
		require.NoError(t, err, c)
	}
}

func TestResolvePathRejectsEscapes(t *testing.T) {
	cases := []string{
		"/abs/path",
		"..",
		"a/../..",
		"../a",
		"a/b/../../../c",
	}
	for _, c := range cases {
		_, err := resolvePath("/root", c)
		require.Error(t, err, c)
	}
}

func TestBlockPathFormatsGridCoordinates(t *testing.T) {
	p, err := blockPath("/root", "ds", []uint64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, "/root/ds/1/2/3", p)
}
