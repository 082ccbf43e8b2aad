package runtime

import (
	"strings"
	"testing"
)

func TestNewDockerRuntime_RequiresDockerDaemon(t *testing.T) {
	// This test exercises the error handling path when no daemon is
	// reachable; with a running daemon it validates the happy path.
	rt, err := NewDockerRuntime()

	if err != nil {
		msg := err.Error()
		if msg == "" {
			t.Error("Error message should not be empty")
		}
		if !strings.Contains(msg, "failed to create Docker client") &&
			!strings.Contains(msg, "failed to connect to Docker daemon") {
			t.Errorf("Unexpected error format: %s", msg)
		}
		return
	}

	if rt == nil {
		t.Error("Expected non-nil runtime when no error returned")
	}
}
