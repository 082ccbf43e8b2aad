package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"shipkit/internal/errors"
	"shipkit/internal/scm"
	"shipkit/internal/storage"
	"shipkit/pkg/pipeline"
)

// PublishStage uploads the release directory and archive to object
// storage, refreshes the bucket's website configuration, and optionally
// records a release tag on the source project.
type PublishStage struct {
	publish  pipeline.Publish
	uploader storage.Uploader
	releaser scm.ReleasePublisher
	branch   string
	isDryRun bool
}

func NewPublishStage(publish pipeline.Publish, uploader storage.Uploader, releaser scm.ReleasePublisher, branch string, isDryRun bool) *PublishStage {
	return &PublishStage{
		publish:  publish,
		uploader: uploader,
		releaser: releaser,
		branch:   branch,
		isDryRun: isDryRun,
	}
}

func (s *PublishStage) Name() string {
	return "publish"
}

func (s *PublishStage) Execute(ctx context.Context, rc RunContext) error {
	bucket := s.publish.Storage.Bucket
	remoteDir := bucket + "/" + rc.Version

	if s.isDryRun {
		fmt.Printf("DRY RUN: would upload %s to %s\n", rc.ReleaseDir, remoteDir)
		fmt.Printf("DRY RUN: would upload %s to %s\n", rc.ArchivePath, bucket)
		if s.publish.Storage.WebsiteIndex != "" {
			fmt.Printf("DRY RUN: would set website index '%s' on %s\n", s.publish.Storage.WebsiteIndex, bucket)
		}
		if s.releaser != nil {
			fmt.Printf("DRY RUN: would tag release v%s on %s\n", rc.Version, s.publish.Release.Project)
		}
		return nil
	}

	// Fail before uploading anything rather than after: a half-published
	// release with no tag is worse than no release.
	if s.publish.Release != nil && s.releaser == nil {
		return errors.NewPublishError(
			fmt.Sprintf("Cannot tag release v%s", rc.Version),
			"a publish.release block is configured but no release token was resolved",
			"Export the token variable named by publish.release.tokenEnv.",
			nil,
		)
	}

	if err := s.uploader.Upload(ctx, rc.ReleaseDir, remoteDir, true); err != nil {
		return errors.NewPublishError(
			fmt.Sprintf("Failed to upload release directory to %s", remoteDir),
			err.Error(),
			"Check the storage CLI credentials and bucket permissions.",
			err,
		)
	}

	if err := s.uploader.Upload(ctx, rc.ArchivePath, bucket+"/"+filepath.Base(rc.ArchivePath), false); err != nil {
		return errors.NewPublishError(
			"Failed to upload the release archive",
			err.Error(),
			"Check the storage CLI credentials and bucket permissions.",
			err,
		)
	}

	if s.publish.Storage.WebsiteIndex != "" {
		if err := s.uploader.SetWebsiteConfig(ctx, bucket, s.publish.Storage.WebsiteIndex); err != nil {
			return errors.NewPublishError(
				"Failed to update the bucket website configuration",
				err.Error(),
				"Check that the storage CLI supports website configuration for this bucket.",
				err,
			)
		}
	}

	if s.releaser != nil {
		if err := s.releaser.PublishTag(rc.Version, s.branch); err != nil {
			return errors.NewPublishError(
				fmt.Sprintf("Failed to tag release v%s", rc.Version),
				err.Error(),
				"Check the release token and project path in the publish.release block.",
				err,
			)
		}
	}

	slog.Info("Release published", "version", rc.Version, "bucket", bucket)
	return nil
}
