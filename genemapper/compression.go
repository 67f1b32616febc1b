package genemapper

import (
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression indicates how (and whether) an export file is compressed. It is
// inferred from the file extension.
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionGzip
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZStandard:
		return "zstd"
	default:
		return "none"
	}
}

// CompressionFromPath maps .gz and .zst suffixes to their compression.
func CompressionFromPath(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".zst"):
		return CompressionZStandard
	default:
		return CompressionDisabled
	}
}

// decompress wraps rc so reads return decompressed bytes. Closing the result
// closes rc.
func decompress(rc io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil

	case CompressionZStandard:
		zr, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, rc}}, nil
	}

	return rc, nil
}

type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstd.Decoder.Close returns nothing.
type zstdCloser struct {
	d *zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}
