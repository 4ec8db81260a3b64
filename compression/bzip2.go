package compression

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// bzip2 is a write+read codec, unlike the standard library's
// compress/bzip2 which is read-only. github.com/dsnet/compress/bzip2
// supplies both halves.
const bzip2DefaultBlockSize = 9

func newBzip2Encoder(w io.Writer, blockSize int) (io.WriteCloser, error) {
	if blockSize == 0 {
		blockSize = bzip2DefaultBlockSize
	}
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: blockSize})
}

func newBzip2Decoder(r io.Reader) (io.Reader, error) {
	return bzip2.NewReader(r, nil)
}
