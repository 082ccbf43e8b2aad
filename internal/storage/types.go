package storage

import "context"

// Uploader publishes local files to object storage and configures
// static-website serving on the target bucket.
type Uploader interface {
	Upload(ctx context.Context, localPath, remoteURI string, recursive bool) error
	SetWebsiteConfig(ctx context.Context, bucket, indexDocument string) error
}
