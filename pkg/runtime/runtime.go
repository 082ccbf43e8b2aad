package runtime

import (
	"context"
	"io"
)

// RunOptions defines the parameters for one build-tool container run.
type RunOptions struct {
	Image            string
	Command          []string
	VolumeMounts     map[string]string
	EnvVars          map[string]string
	WorkingDirectory string
}

// ContainerRuntime defines the contract for container operations. Closing
// the returned reader waits for the container and surfaces its exit status.
type ContainerRuntime interface {
	PullImage(ctx context.Context, image string) error
	RunContainer(ctx context.Context, opts RunOptions) (io.ReadCloser, error)
}
