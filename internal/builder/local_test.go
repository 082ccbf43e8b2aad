package builder

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"shipkit/internal/command"
	"shipkit/pkg/pipeline"
)

// MockCommandRunner is a mock implementation of the command.Runner interface
type MockCommandRunner struct {
	*mock.Mock
}

func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{Mock: &mock.Mock{}}
}

func (m *MockCommandRunner) Run(ctx context.Context, spec command.Spec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func TestLocalBuilder_Build(t *testing.T) {
	workDir := t.TempDir()
	module := pipeline.BuildModule{
		Name:    "metrics-monitor",
		Dir:     "metrics-host-monitoring",
		Command: "mvn",
		Args:    []string{"clean", "package", "-DskipTests"},
	}
	env := map[string]string{"RELEASE_NUMBER": "3.0.0", "BUILD_NUMBER": "17"}

	t.Run("successful build runs tool in module dir with env", func(t *testing.T) {
		runner := NewMockCommandRunner()
		runner.On("Run", mock.Anything, mock.MatchedBy(func(spec command.Spec) bool {
			return spec.Name == "mvn" &&
				spec.Dir == filepath.Join(workDir, "metrics-host-monitoring") &&
				spec.Env["RELEASE_NUMBER"] == "3.0.0" &&
				len(spec.Args) == 3
		})).Return(nil)

		b := NewLocalBuilder(runner)
		if err := b.Build(context.Background(), module, workDir, env); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		runner.AssertExpectations(t)
	})

	t.Run("tool failure names the module", func(t *testing.T) {
		runner := NewMockCommandRunner()
		runner.On("Run", mock.Anything, mock.Anything).Return(errors.New("mvn failed: exit status 1"))

		b := NewLocalBuilder(runner)
		err := b.Build(context.Background(), module, workDir, env)
		if err == nil {
			t.Fatal("Expected error but got none")
		}
		if !strings.Contains(err.Error(), "module metrics-monitor build failed") {
			t.Errorf("Expected error naming the module, got: %v", err)
		}

		runner.AssertExpectations(t)
	})
}
