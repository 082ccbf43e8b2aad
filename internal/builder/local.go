package builder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"shipkit/internal/command"
	"shipkit/pkg/pipeline"
)

// LocalBuilder runs build modules as subprocesses on the host.
type LocalBuilder struct {
	runner command.Runner
}

func NewLocalBuilder(runner command.Runner) *LocalBuilder {
	return &LocalBuilder{runner: runner}
}

func (b *LocalBuilder) Build(ctx context.Context, module pipeline.BuildModule, workDir string, env map[string]string) error {
	dir := filepath.Join(workDir, module.Dir)

	slog.Info("Building module", "module", module.Name, "dir", dir, "runtime", "local")

	spec := command.Spec{
		Name: module.Command,
		Args: module.Args,
		Dir:  dir,
		Env:  env,
	}

	if err := b.runner.Run(ctx, spec); err != nil {
		return fmt.Errorf("module %s build failed: %w", module.Name, err)
	}

	slog.Info("Module build completed", "module", module.Name)
	return nil
}
