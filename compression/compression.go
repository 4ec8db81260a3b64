// Package compression implements the encoder/decoder adapters N5's block
// codec consumes: raw (identity), gzip, bzip2, lz4, and xz. The
// algorithms themselves are external collaborators (spec.md §1); this
// package only frames them behind a common encoder(writer)->writer,
// decoder(reader)->reader contract.
package compression

import (
	"encoding/json"
	"fmt"
	"io"
)

// Kind selects one of the five supported compression schemes.
type Kind string

const (
	Raw   Kind = "raw"
	Gzip  Kind = "gzip"
	Bzip2 Kind = "bzip2"
	Lz4   Kind = "lz4"
	Xz    Kind = "xz"
)

// CompressionType is a tagged union selecting a compression scheme and
// its codec-specific parameters. The zero value is Raw.
type CompressionType struct {
	Kind Kind

	// GzipLevel is the compression level for Gzip, in the range accepted
	// by compress/gzip.NewWriterLevel. A zero GzipLevel is passed through
	// as-is (gzip.NoCompression); a "gzip" JSON object without a level
	// decodes to gzip.DefaultCompression.
	GzipLevel int

	// BlockSize is the Bzip2 block-size factor (1-9, in units of 100k;
	// 0 selects 9). For Lz4 it is kept for the JSON form only and is not
	// applied to the frame.
	BlockSize int

	// XzPreset is the xz compression preset (0-9). It is kept for the
	// JSON form only and is not applied to the encoder.
	XzPreset int
}

// NewRaw returns the identity compression.
func NewRaw() CompressionType { return CompressionType{Kind: Raw} }

// NewGzip returns gzip compression at the given compress/gzip level.
func NewGzip(level int) CompressionType { return CompressionType{Kind: Gzip, GzipLevel: level} }

// NewBzip2 returns bzip2 compression with the given block-size factor
// (1-9, as in the reference bzip2 block-size-100k setting).
func NewBzip2(blockSize int) CompressionType { return CompressionType{Kind: Bzip2, BlockSize: blockSize} }

// NewLz4 returns lz4 framing. blockSize is stored for the JSON form; the
// encoder does not apply it.
func NewLz4(blockSize int) CompressionType { return CompressionType{Kind: Lz4, BlockSize: blockSize} }

// NewXz returns xz compression. preset is stored for the JSON form; the
// encoder does not apply it.
func NewXz(preset int) CompressionType { return CompressionType{Kind: Xz, XzPreset: preset} }

// Encoder wraps w so that bytes written through the result are framed
// with this compression scheme. The caller must Close the returned
// writer (under the same lock that protects w) to flush trailing bytes.
func (c CompressionType) Encoder(w io.Writer) (io.WriteCloser, error) {
	switch c.Kind {
	case "", Raw:
		return nopWriteCloser{w}, nil
	case Gzip:
		return newGzipEncoder(w, c.GzipLevel)
	case Bzip2:
		return newBzip2Encoder(w, c.BlockSize)
	case Lz4:
		return newLz4Encoder(w, c.BlockSize)
	case Xz:
		return newXzEncoder(w, c.XzPreset)
	default:
		return nil, fmt.Errorf("compression: unsupported kind %q", c.Kind)
	}
}

// Decoder wraps r so that reads through the result yield this
// compression scheme's decoded bytes. EOF on r signals end of payload;
// there is no length prefix.
func (c CompressionType) Decoder(r io.Reader) (io.Reader, error) {
	switch c.Kind {
	case "", Raw:
		return r, nil
	case Gzip:
		return newGzipDecoder(r)
	case Bzip2:
		return newBzip2Decoder(r)
	case Lz4:
		return newLz4Decoder(r), nil
	case Xz:
		return newXzDecoder(r)
	default:
		return nil, fmt.Errorf("compression: unsupported kind %q", c.Kind)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressionJSON is the N5 wire form: {"type": "...", ...params}. Each
// codec only emits the parameters that apply to it.
type compressionJSON struct {
	Type      Kind `json:"type"`
	Level     *int `json:"level,omitempty"`
	BlockSize *int `json:"blockSize,omitempty"`
	Preset    *int `json:"preset,omitempty"`
}

// MarshalJSON renders the {"type": ..., ...params} object form.
func (c CompressionType) MarshalJSON() ([]byte, error) {
	out := compressionJSON{Type: c.Kind}
	if out.Type == "" {
		out.Type = Raw
	}
	switch c.Kind {
	case Gzip:
		level := c.GzipLevel
		out.Level = &level
	case Bzip2, Lz4:
		bs := c.BlockSize
		out.BlockSize = &bs
	case Xz:
		preset := c.XzPreset
		out.Preset = &preset
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the {"type": ..., ...params} object form.
func (c *CompressionType) UnmarshalJSON(b []byte) error {
	var raw compressionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	out := CompressionType{Kind: raw.Type}
	switch raw.Type {
	case Gzip:
		out.GzipLevel = gzipDefaultLevel
		if raw.Level != nil {
			out.GzipLevel = *raw.Level
		}
	case Bzip2, Lz4:
		if raw.BlockSize != nil {
			out.BlockSize = *raw.BlockSize
		}
	case Xz:
		if raw.Preset != nil {
			out.XzPreset = *raw.Preset
		}
	case Raw, "":
		out.Kind = Raw
	default:
		return fmt.Errorf("compression: unsupported type %q", raw.Type)
	}
	*c = out
	return nil
}
