package app

import (
	"fmt"
	"os"
	"path/filepath"

	"shipkit/pkg/pipeline"
)

// RunContext carries the run-scoped values shared by every stage. It is
// built once from the blueprint and the hosting environment before the
// first stage runs, and never modified afterwards.
type RunContext struct {
	JobName       string
	BuildNumber   string
	ReleaseNumber string
	BuildURL      string
	Version       string
	WorkDir       string
	ReleaseDir    string
	ArchivePath   string
	RepoFilePath  string
}

// NewRunContext derives the run context from the pipeline blueprint and
// the CI environment. BUILD_NUMBER and RELEASE_NUMBER must be set by the
// hosting environment; BUILD_URL is optional.
func NewRunContext(p *pipeline.Pipeline) (RunContext, error) {
	buildNumber := os.Getenv("BUILD_NUMBER")
	if buildNumber == "" {
		return RunContext{}, fmt.Errorf("required environment variable BUILD_NUMBER is not set")
	}

	releaseNumber := os.Getenv("RELEASE_NUMBER")
	if releaseNumber == "" {
		return RunContext{}, fmt.Errorf("required environment variable RELEASE_NUMBER is not set")
	}

	version := fmt.Sprintf("%s.%s", releaseNumber, buildNumber)
	releaseDir := filepath.Join(p.Spec.Package.ReleaseDir, version)

	return RunContext{
		JobName:       p.Metadata.Name,
		BuildNumber:   buildNumber,
		ReleaseNumber: releaseNumber,
		BuildURL:      os.Getenv("BUILD_URL"),
		Version:       version,
		WorkDir:       p.Spec.Source.Destination,
		ReleaseDir:    releaseDir,
		ArchivePath:   filepath.Join(filepath.Dir(releaseDir), fmt.Sprintf("%s-%s.tar.gz", p.Spec.Package.ArchiveName, version)),
		RepoFilePath:  filepath.Join(releaseDir, p.Metadata.Name+".repo"),
	}, nil
}

// Env returns the variables exported to every external tool a stage
// invokes. The repo-file script in particular reads SHIPKIT_REPO_FILE and
// SHIPKIT_RELEASE_DIR instead of taking arguments.
func (rc RunContext) Env() map[string]string {
	env := map[string]string{
		"BUILD_NUMBER":        rc.BuildNumber,
		"RELEASE_NUMBER":      rc.ReleaseNumber,
		"VERSION":             rc.Version,
		"SHIPKIT_REPO_FILE":   rc.RepoFilePath,
		"SHIPKIT_RELEASE_DIR": rc.ReleaseDir,
	}
	if rc.BuildURL != "" {
		env["BUILD_URL"] = rc.BuildURL
	}
	return env
}

// Expand substitutes ${VAR} references in s with the run's exported
// variables. Unknown variables expand to the empty string.
func (rc RunContext) Expand(s string) string {
	env := rc.Env()
	return os.Expand(s, func(key string) string {
		return env[key]
	})
}
