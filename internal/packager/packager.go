package packager

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// StageArtifacts copies every file matching the patterns (relative to
// workDir) into releaseDir and returns the staged paths. A pattern that
// matches nothing is an error: a missing artifact means an earlier build
// produced nothing, and silently skipping it would publish an incomplete
// release.
func StageArtifacts(workDir string, patterns []string, releaseDir string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no artifact patterns configured")
	}

	if err := os.MkdirAll(releaseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create release directory: %w", err)
	}

	var staged []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(workDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid artifact pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no artifacts matched pattern %q under %s", pattern, workDir)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("failed to stat artifact %s: %w", match, err)
			}
			if info.IsDir() {
				continue
			}

			dest, err := stageDestination(releaseDir, match)
			if err != nil {
				return nil, err
			}
			if err := copyFile(match, dest); err != nil {
				return nil, fmt.Errorf("failed to stage artifact %s: %w", match, err)
			}
			slog.Info("Staged artifact", "artifact", filepath.Base(match), "releaseDir", releaseDir)
			staged = append(staged, dest)
		}
	}

	return staged, nil
}

// stageDestination joins the artifact's base name into releaseDir and
// verifies the result stays inside it once both resolve to absolute
// paths, so a relative release directory like ../releases is legal but
// nothing escapes the release root.
func stageDestination(releaseDir, artifact string) (string, error) {
	dest := filepath.Join(releaseDir, filepath.Base(artifact))

	absDir, err := filepath.Abs(releaseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve release directory: %w", err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve artifact destination: %w", err)
	}

	if !strings.HasPrefix(absDest, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact destination %s escapes release directory %s", dest, releaseDir)
	}
	return dest, nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}

	return os.Chmod(dst, srcInfo.Mode())
}
