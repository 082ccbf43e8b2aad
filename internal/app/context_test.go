package app

import (
	"path/filepath"
	"strings"
	"testing"

	"shipkit/pkg/pipeline"
)

func contextPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Metadata: pipeline.Metadata{Name: "metrics-release"},
		Spec: pipeline.Spec{
			Source: pipeline.Source{Destination: "./work"},
			Package: pipeline.Package{
				ReleaseDir:  "./release",
				ArchiveName: "metrics",
			},
		},
	}
}

func TestNewRunContext(t *testing.T) {
	t.Setenv("BUILD_NUMBER", "17")
	t.Setenv("RELEASE_NUMBER", "3.0.0")
	t.Setenv("BUILD_URL", "https://ci.example.org/job/17")

	rc, err := NewRunContext(contextPipeline())
	if err != nil {
		t.Fatalf("NewRunContext failed: %v", err)
	}

	if rc.Version != "3.0.0.17" {
		t.Errorf("Version = %q, want %q", rc.Version, "3.0.0.17")
	}
	if rc.JobName != "metrics-release" {
		t.Errorf("JobName = %q, want the blueprint metadata name", rc.JobName)
	}
	if rc.ReleaseDir != filepath.Join("release", "3.0.0.17") {
		t.Errorf("ReleaseDir = %q, want the versioned release directory", rc.ReleaseDir)
	}
	if rc.ArchivePath != filepath.Join("release", "metrics-3.0.0.17.tar.gz") {
		t.Errorf("ArchivePath = %q, want the versioned archive beside the release dir", rc.ArchivePath)
	}
	if filepath.Base(rc.RepoFilePath) != "metrics-release.repo" {
		t.Errorf("RepoFilePath = %q, want a .repo file named after the job", rc.RepoFilePath)
	}
}

func TestNewRunContext_MissingBuildNumber(t *testing.T) {
	t.Setenv("BUILD_NUMBER", "")
	t.Setenv("RELEASE_NUMBER", "3.0.0")

	_, err := NewRunContext(contextPipeline())
	if err == nil {
		t.Fatal("Expected error for unset BUILD_NUMBER")
	}
	if !strings.Contains(err.Error(), "BUILD_NUMBER") {
		t.Errorf("Error should name the missing variable, got: %v", err)
	}
}

func TestNewRunContext_MissingReleaseNumber(t *testing.T) {
	t.Setenv("BUILD_NUMBER", "17")
	t.Setenv("RELEASE_NUMBER", "")

	_, err := NewRunContext(contextPipeline())
	if err == nil {
		t.Fatal("Expected error for unset RELEASE_NUMBER")
	}
	if !strings.Contains(err.Error(), "RELEASE_NUMBER") {
		t.Errorf("Error should name the missing variable, got: %v", err)
	}
}

func TestRunContext_Env(t *testing.T) {
	rc := RunContext{
		BuildNumber:   "17",
		ReleaseNumber: "3.0.0",
		Version:       "3.0.0.17",
		ReleaseDir:    "/release/3.0.0.17",
		RepoFilePath:  "/release/3.0.0.17/metrics-release.repo",
	}

	env := rc.Env()
	if env["SHIPKIT_REPO_FILE"] != rc.RepoFilePath {
		t.Errorf("SHIPKIT_REPO_FILE = %q, want %q", env["SHIPKIT_REPO_FILE"], rc.RepoFilePath)
	}
	if env["SHIPKIT_RELEASE_DIR"] != rc.ReleaseDir {
		t.Errorf("SHIPKIT_RELEASE_DIR = %q, want %q", env["SHIPKIT_RELEASE_DIR"], rc.ReleaseDir)
	}
	if _, ok := env["BUILD_URL"]; ok {
		t.Error("BUILD_URL should be absent when the run has none")
	}
}

func TestRunContext_Expand(t *testing.T) {
	rc := RunContext{Version: "3.0.0.17", BuildNumber: "17"}

	got := rc.Expand("-Dpackage.release=${VERSION}")
	if got != "-Dpackage.release=3.0.0.17" {
		t.Errorf("Expand = %q, want the version substituted", got)
	}

	if got := rc.Expand("plain-arg"); got != "plain-arg" {
		t.Errorf("Expand of a plain string = %q, want it unchanged", got)
	}
}
