package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Spec describes one external tool invocation.
type Spec struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string
}

// String renders the invocation for logs and dry-run output.
func (s Spec) String() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// Runner executes external tools and reports their exit status as an error.
type Runner interface {
	Run(ctx context.Context, spec Spec) error
}

// ExecRunner runs tools as local subprocesses. The child inherits the
// parent environment with the spec's variables appended, and its combined
// output is streamed line by line into the structured log.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir

	env := os.Environ()
	for k, v := range spec.Env {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	slog.Info("Executing command", "command", spec.String(), "dir", spec.Dir)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}

	streamOutput(spec.Name, stdout)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w", spec.Name, err)
	}

	slog.Info("Command completed successfully", "command", spec.String())
	return nil
}

func streamOutput(tool string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			slog.Info("Tool output", "tool", tool, "line", line)
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Failed to read tool output", "tool", tool, "error", err)
	}
}
