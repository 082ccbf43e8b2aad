package storage

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/internal/command"
)

// CLIUploader implements Uploader by shelling out to the configured cloud
// CLI. The flag layout follows the gsutil conventions (`cp [-r]` and
// `web set -m <index>`); the tool itself is whatever the pipeline names.
type CLIUploader struct {
	runner command.Runner
	tool   string
}

func NewCLIUploader(runner command.Runner, tool string) *CLIUploader {
	return &CLIUploader{
		runner: runner,
		tool:   tool,
	}
}

func (u *CLIUploader) Upload(ctx context.Context, localPath, remoteURI string, recursive bool) error {
	args := []string{"cp"}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, localPath, remoteURI)

	slog.Info("Uploading to object storage", "local", localPath, "remote", remoteURI, "recursive", recursive)

	if err := u.runner.Run(ctx, command.Spec{Name: u.tool, Args: args}); err != nil {
		return fmt.Errorf("upload of %s failed: %w", localPath, err)
	}
	return nil
}

func (u *CLIUploader) SetWebsiteConfig(ctx context.Context, bucket, indexDocument string) error {
	slog.Info("Configuring bucket website serving", "bucket", bucket, "index", indexDocument)

	args := []string{"web", "set", "-m", indexDocument, bucket}
	if err := u.runner.Run(ctx, command.Spec{Name: u.tool, Args: args}); err != nil {
		return fmt.Errorf("website configuration for %s failed: %w", bucket, err)
	}
	return nil
}
