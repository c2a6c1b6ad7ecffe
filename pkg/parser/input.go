package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// StdinName is the source name used for standard input.
const StdinName = "-"

// Compression identifies how an input file is compressed.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// CompressionFor derives the compression of a file from its extension.
func CompressionFor(path string) Compression {
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

// OpenInput opens a log file for reading, transparently decompressing
// it when the extension says it is compressed.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	rc, err := Decompress(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return rc, nil
}

// Decompress wraps rc in a decoder for the given compression. Closing the
// returned reader closes rc as well.
func Decompress(rc io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &decodedReader{Reader: zr, closeDecoder: zr.Close, file: rc}, nil

	case CompressionZstd:
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &decodedReader{Reader: zr, closeDecoder: func() error { zr.Close(); return nil }, file: rc}, nil

	case CompressionLZ4:
		return &decodedReader{Reader: lz4.NewReader(rc), file: rc}, nil

	case CompressionNone, "":
		return rc, nil

	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}

// decodedReader reads through a decoder and closes both the decoder and
// the underlying file.
type decodedReader struct {
	io.Reader
	closeDecoder func() error
	file         io.Closer
}

func (d *decodedReader) Close() error {
	var firstErr error
	if d.closeDecoder != nil {
		firstErr = d.closeDecoder()
	}
	if err := d.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
