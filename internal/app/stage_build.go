package app

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/internal/builder"
	"shipkit/internal/errors"
	"shipkit/pkg/pipeline"
)

// BuildStage runs every build module in declared order through the
// configured build runtime.
type BuildStage struct {
	modules  []pipeline.BuildModule
	builder  builder.Builder
	isDryRun bool
}

func NewBuildStage(modules []pipeline.BuildModule, b builder.Builder, isDryRun bool) *BuildStage {
	return &BuildStage{
		modules:  modules,
		builder:  b,
		isDryRun: isDryRun,
	}
}

func (s *BuildStage) Name() string {
	return "build"
}

func (s *BuildStage) Execute(ctx context.Context, rc RunContext) error {
	env := rc.Env()

	for _, module := range s.modules {
		expanded := module
		expanded.Args = make([]string, len(module.Args))
		for i, arg := range module.Args {
			expanded.Args[i] = rc.Expand(arg)
		}

		if s.isDryRun {
			fmt.Printf("DRY RUN: would build module '%s' in %s: %s %v\n", module.Name, module.Dir, module.Command, expanded.Args)
			continue
		}

		slog.Info("Building module", "module", module.Name, "dir", module.Dir)
		if err := s.builder.Build(ctx, expanded, rc.WorkDir, env); err != nil {
			return errors.NewBuildError(
				fmt.Sprintf("Build of module '%s' failed", module.Name),
				err.Error(),
				"Inspect the build tool output above for the failing step.",
				err,
			)
		}
	}

	return nil
}
