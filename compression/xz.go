package compression

import (
	"io"

	"github.com/ulikunitz/xz"
)

// preset is carried for wire fidelity but not applied: ulikunitz/xz
// exposes its knobs as a WriterConfig (dictionary size, match finder,
// etc.), not a single numeric xz(1) preset, so there is no lossless
// mapping from an arbitrary preset int onto it.
func newXzEncoder(w io.Writer, preset int) (io.WriteCloser, error) {
	_ = preset
	return xz.NewWriter(w)
}

func newXzDecoder(r io.Reader) (io.Reader, error) {
	return xz.NewReader(r)
}
