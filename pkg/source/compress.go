package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the encoding of a log file on disk.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// DetectCompression picks the decoder for a file from its extension.
// Rotated logs such as access.log.1 are treated as plain text.
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// decompress wraps r in the decoder for c. The returned closer releases the
// decoder only; the caller still owns r.
func decompress(c Compression, r io.Reader) (io.Reader, io.Closer, error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip header: %w", err)
		}
		return zr, zr, nil
	case CompressionZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd decoder: %w", err)
		}
		rc := d.IOReadCloser()
		return rc, rc, nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil, nil
	default:
		return r, nil, nil
	}
}

// closers closes every non-nil closer in order and returns the first error.
type closers []io.Closer

func (c closers) Close() error {
	var firstErr error
	for _, cl := range c {
		if cl == nil {
			continue
		}
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
