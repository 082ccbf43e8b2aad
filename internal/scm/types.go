package scm

import (
	"context"

	"shipkit/pkg/pipeline"
)

// SourceProvider fetches the release branch into a local working directory.
type SourceProvider interface {
	Checkout(ctx context.Context, src pipeline.Source, token string) (string, error)
}

// ReleasePublisher records a published release on the source project.
type ReleasePublisher interface {
	PublishTag(version, ref string) error
}
