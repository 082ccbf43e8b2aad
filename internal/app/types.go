package app

import (
	"context"
)

// Stage represents a single stage in the release pipeline. Each stage
// implements this interface to provide a name and execution logic. Stages
// receive the run context by value and report failure only through the
// error return.
type Stage interface {
	Name() string
	Execute(ctx context.Context, rc RunContext) error
}
