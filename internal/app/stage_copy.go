package app

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/internal/packager"
)

// CopyArtifactsStage glob-stages the built packages into the release
// directory. A pattern matching zero files fails the run: a missing
// artifact means an earlier build produced nothing.
type CopyArtifactsStage struct {
	patterns []string
	isDryRun bool
}

func NewCopyArtifactsStage(patterns []string, isDryRun bool) *CopyArtifactsStage {
	return &CopyArtifactsStage{
		patterns: patterns,
		isDryRun: isDryRun,
	}
}

func (s *CopyArtifactsStage) Name() string {
	return "copy-artifacts"
}

func (s *CopyArtifactsStage) Execute(ctx context.Context, rc RunContext) error {
	if s.isDryRun {
		for _, pattern := range s.patterns {
			fmt.Printf("DRY RUN: would stage artifacts matching %q into %s\n", pattern, rc.ReleaseDir)
		}
		return nil
	}

	staged, err := packager.StageArtifacts(rc.WorkDir, s.patterns, rc.ReleaseDir)
	if err != nil {
		return errors.NewPackageError(
			"Failed to stage release artifacts",
			err.Error(),
			"Check that the build produced packages at the configured artifact paths.",
			err,
		)
	}

	slog.Info("Artifacts staged", "count", len(staged), "releaseDir", rc.ReleaseDir)
	return nil
}
