package app

import (
	"context"
	"fmt"

	"shipkit/internal/errors"
	"shipkit/internal/repo"
)

// RepoMetadataStage generates the package repository metadata and the
// .repo descriptor file for the release directory.
type RepoMetadataStage struct {
	tools    *repo.Tools
	isDryRun bool
}

func NewRepoMetadataStage(tools *repo.Tools, isDryRun bool) *RepoMetadataStage {
	return &RepoMetadataStage{
		tools:    tools,
		isDryRun: isDryRun,
	}
}

func (s *RepoMetadataStage) Name() string {
	return "repo-metadata"
}

func (s *RepoMetadataStage) Execute(ctx context.Context, rc RunContext) error {
	if s.isDryRun {
		fmt.Printf("DRY RUN: would generate repository metadata in %s\n", rc.ReleaseDir)
		fmt.Printf("DRY RUN: would generate repo descriptor at %s\n", rc.RepoFilePath)
		return nil
	}

	if err := s.tools.GenerateMetadata(ctx, rc.ReleaseDir); err != nil {
		return errors.NewRepoError(
			"Repository metadata generation failed",
			err.Error(),
			"Check that the repo metadata tool is installed and the release directory contains packages.",
			err,
		)
	}

	if err := s.tools.GenerateRepoFile(ctx, rc.Env()); err != nil {
		return errors.NewRepoError(
			"Repo descriptor generation failed",
			err.Error(),
			"Check the repo-file script output; it reads SHIPKIT_REPO_FILE and SHIPKIT_RELEASE_DIR from the environment.",
			err,
		)
	}

	return nil
}
