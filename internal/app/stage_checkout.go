package app

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/internal/scm"
	"shipkit/pkg/pipeline"
)

// CheckoutStage clones the release branch into the working directory.
type CheckoutStage struct {
	source   pipeline.Source
	provider scm.SourceProvider
	token    string
	isDryRun bool
}

func NewCheckoutStage(source pipeline.Source, provider scm.SourceProvider, token string, isDryRun bool) *CheckoutStage {
	return &CheckoutStage{
		source:   source,
		provider: provider,
		token:    token,
		isDryRun: isDryRun,
	}
}

func (s *CheckoutStage) Name() string {
	return "checkout"
}

func (s *CheckoutStage) Execute(ctx context.Context, rc RunContext) error {
	if s.isDryRun {
		fmt.Printf("DRY RUN: would clone %s (branch %s) into %s\n", s.source.URL, s.source.Branch, rc.WorkDir)
		return nil
	}

	dir, err := s.provider.Checkout(ctx, s.source, s.token)
	if err != nil {
		return errors.NewCheckoutError(
			fmt.Sprintf("Failed to check out branch '%s' from %s", s.source.Branch, s.source.URL),
			err.Error(),
			"Verify the repository URL, branch name, and access token.",
			err,
		)
	}

	slog.Info("Checkout completed", "url", s.source.URL, "branch", s.source.Branch, "dir", dir)
	return nil
}
