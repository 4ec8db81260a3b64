package compression

import (
	"compress/gzip"
	"io"
)

const gzipDefaultLevel = gzip.DefaultCompression

func newGzipEncoder(w io.Writer, level int) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, level)
}

func newGzipDecoder(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}
