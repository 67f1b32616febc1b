package genemapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// Open returns a reader over the export at path, which may be a local file or
// a gs://bucket/object URL. Files ending in .gz or .zst are decompressed
// transparently.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	var err error

	if strings.HasPrefix(path, "gs://") {
		rc, err = openGCS(ctx, path)
	} else {
		rc, err = os.Open(path)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	return decompress(rc, CompressionFromPath(path))
}

// splitGCSPath turns gs://bucket/some/object into its bucket and object.
func splitGCSPath(path string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(path, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q is not of the form gs://bucket/object", path)
	}
	return parts[0], parts[1], nil
}

type gcsReadCloser struct {
	*storage.Reader
	client *storage.Client
}

func (g *gcsReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func openGCS(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, object, err := splitGCSPath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, pfx.Err(err)
	}

	return &gcsReadCloser{Reader: r, client: client}, nil
}
