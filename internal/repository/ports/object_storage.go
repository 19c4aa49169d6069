package ports

import (
	"context"
	"io"
)

// ObjectStorage holds uploaded media. Upload returns the URL clients use to
// fetch the object.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
	Remove(ctx context.Context, bucket, objectName string) error
}
