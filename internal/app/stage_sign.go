package app

import (
	"context"
	"fmt"

	"shipkit/internal/errors"
	"shipkit/internal/repo"
)

// SignStage invokes the signing script on the staged packages.
type SignStage struct {
	tools    *repo.Tools
	isDryRun bool
}

func NewSignStage(tools *repo.Tools, isDryRun bool) *SignStage {
	return &SignStage{
		tools:    tools,
		isDryRun: isDryRun,
	}
}

func (s *SignStage) Name() string {
	return "sign"
}

func (s *SignStage) Execute(ctx context.Context, rc RunContext) error {
	if s.isDryRun {
		fmt.Printf("DRY RUN: would sign packages in %s\n", rc.ReleaseDir)
		return nil
	}

	if err := s.tools.Sign(ctx, rc.ReleaseDir); err != nil {
		return errors.NewSignError(
			"Package signing failed",
			err.Error(),
			"Check the signing key configuration and the signing script output.",
			err,
		)
	}
	return nil
}
