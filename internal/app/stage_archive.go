package app

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/internal/packager"
)

// ArchiveStage produces the tar.gz snapshot of the release directory.
type ArchiveStage struct {
	isDryRun bool
}

func NewArchiveStage(isDryRun bool) *ArchiveStage {
	return &ArchiveStage{isDryRun: isDryRun}
}

func (s *ArchiveStage) Name() string {
	return "archive"
}

func (s *ArchiveStage) Execute(ctx context.Context, rc RunContext) error {
	if s.isDryRun {
		fmt.Printf("DRY RUN: would archive %s to %s\n", rc.ReleaseDir, rc.ArchivePath)
		return nil
	}

	if err := packager.Archive(rc.ReleaseDir, rc.ArchivePath); err != nil {
		return errors.NewArchiveError(
			"Failed to archive the release directory",
			err.Error(),
			"Check disk space and permissions on the release directory's parent.",
			err,
		)
	}

	slog.Info("Release archived", "archive", rc.ArchivePath)
	return nil
}
