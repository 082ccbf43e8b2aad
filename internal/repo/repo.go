package repo

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/internal/command"
	"shipkit/pkg/pipeline"
)

// Tools wraps the external packaging helpers: the signing script, the
// repository metadata generator, and the repo-file script. Only exit
// status is observed; the tools own their output.
type Tools struct {
	runner command.Runner
	pkg    pipeline.Package
}

func NewTools(runner command.Runner, pkg pipeline.Package) *Tools {
	return &Tools{
		runner: runner,
		pkg:    pkg,
	}
}

// Sign invokes the signing script on the staged packages.
func (t *Tools) Sign(ctx context.Context, releaseDir string) error {
	slog.Info("Signing packages", "script", t.pkg.SignScript, "releaseDir", releaseDir)

	spec := command.Spec{
		Name: t.pkg.SignScript,
		Args: []string{releaseDir},
	}
	if err := t.runner.Run(ctx, spec); err != nil {
		return fmt.Errorf("signing failed: %w", err)
	}
	return nil
}

// GenerateMetadata runs the repository metadata generator on the release
// directory, producing a yum-style package index.
func (t *Tools) GenerateMetadata(ctx context.Context, releaseDir string) error {
	slog.Info("Generating repository metadata", "command", t.pkg.RepoCommand, "releaseDir", releaseDir)

	spec := command.Spec{
		Name: t.pkg.RepoCommand,
		Args: []string{releaseDir},
	}
	if err := t.runner.Run(ctx, spec); err != nil {
		return fmt.Errorf("repository metadata generation failed: %w", err)
	}
	return nil
}

// GenerateRepoFile runs the repo-file script. The script takes no
// arguments; it reads its output path and release directory from the
// run's environment.
func (t *Tools) GenerateRepoFile(ctx context.Context, env map[string]string) error {
	slog.Info("Generating repo descriptor file", "script", t.pkg.RepoFileScript)

	spec := command.Spec{
		Name: t.pkg.RepoFileScript,
		Env:  env,
	}
	if err := t.runner.Run(ctx, spec); err != nil {
		return fmt.Errorf("repo file generation failed: %w", err)
	}
	return nil
}
