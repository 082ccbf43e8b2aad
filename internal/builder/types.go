package builder

import (
	"context"

	"shipkit/pkg/pipeline"
)

// Builder runs one build module to completion and reports its exit status.
// env is appended to the tool's environment; workDir is the checkout root
// the module's dir is resolved against.
type Builder interface {
	Build(ctx context.Context, module pipeline.BuildModule, workDir string, env map[string]string) error
}
