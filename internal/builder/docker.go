package builder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"shipkit/pkg/pipeline"
	"shipkit/pkg/runtime"
)

// WorkspaceDirectory is where the checkout is mounted inside the build container.
const WorkspaceDirectory = "/workspace"

// DockerBuilder runs build modules inside a container so the build tool and
// its toolchain never have to exist on the host.
type DockerBuilder struct {
	containerRuntime runtime.ContainerRuntime
	image            string
}

// NewDockerBuilder creates a DockerBuilder that runs modules in the given image.
func NewDockerBuilder(containerRuntime runtime.ContainerRuntime, image string) *DockerBuilder {
	return &DockerBuilder{
		containerRuntime: containerRuntime,
		image:            image,
	}
}

func (b *DockerBuilder) Build(ctx context.Context, module pipeline.BuildModule, workDir string, env map[string]string) error {
	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve checkout directory: %w", err)
	}

	if err := b.containerRuntime.PullImage(ctx, b.image); err != nil {
		return fmt.Errorf("failed to pull build image: %w", err)
	}

	cmd := append([]string{module.Command}, module.Args...)

	slog.Info("Building module", "module", module.Name, "image", b.image, "runtime", "docker")

	opts := runtime.RunOptions{
		Image:   b.image,
		Command: cmd,
		VolumeMounts: map[string]string{
			absWorkDir: WorkspaceDirectory,
		},
		EnvVars:          env,
		WorkingDirectory: path.Join(WorkspaceDirectory, filepath.ToSlash(module.Dir)),
	}

	reader, err := b.containerRuntime.RunContainer(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to run build container: %w", err)
	}

	// Stream the output
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		cleanLine := cleanDockerLogLine(scanner.Text())
		if cleanLine != "" {
			slog.Info("Build output", "module", module.Name, "line", cleanLine)
		}
	}

	if err := scanner.Err(); err != nil {
		reader.Close() // Best effort cleanup
		return fmt.Errorf("error reading build output: %w", err)
	}

	// Check container exit status
	if err := reader.Close(); err != nil {
		return fmt.Errorf("module %s build failed: %w", module.Name, err)
	}

	slog.Info("Module build completed", "module", module.Name)
	return nil
}

// ansiRegex is a compiled regex for ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// cleanDockerLogLine removes Docker log headers, ANSI escape sequences, and filters out binary/control characters.
func cleanDockerLogLine(line string) string {
	if len(line) == 0 {
		return ""
	}

	// Docker log format has 8-byte header: [STREAM_TYPE][0][0][0][SIZE]
	if len(line) >= 8 {
		if line[0] == 1 || line[0] == 2 { // stdout or stderr stream type
			if len(line) > 8 {
				line = line[8:]
			} else {
				return "" // Header only, no content
			}
		}
	}

	// Remove ANSI escape sequences (colors, formatting, etc.)
	line = ansiRegex.ReplaceAllString(line, "")

	// Remove common control characters
	line = strings.ReplaceAll(line, "\x00", "")
	line = strings.ReplaceAll(line, "\x01", "")
	line = strings.ReplaceAll(line, "\x02", "")
	line = strings.ReplaceAll(line, "\x03", "")

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return ""
	}

	// Filter out lines that are mostly binary/control characters
	printableChars := 0
	for _, r := range line {
		if r >= 32 && r <= 126 { // printable ASCII range
			printableChars++
		}
	}

	if float64(printableChars)/float64(len(line)) < 0.5 {
		return ""
	}

	return line
}
