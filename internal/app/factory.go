package app

import (
	"fmt"

	"shipkit/internal/builder"
	"shipkit/internal/command"
	"shipkit/internal/creds"
	"shipkit/internal/errors"
	"shipkit/internal/repo"
	"shipkit/internal/runtime"
	"shipkit/internal/scm"
	"shipkit/internal/storage"
	"shipkit/pkg/pipeline"
)

// BuildStages assembles the seven-stage release sequence from the parsed
// blueprint and the resolved credentials. Stage order is fixed; the
// blueprint only configures what each stage does.
func BuildStages(p *pipeline.Pipeline, c *creds.Credentials, isDryRun bool) ([]Stage, error) {
	runner := command.NewExecRunner()

	moduleBuilder, err := newBuilder(p.Spec.Build, runner, isDryRun)
	if err != nil {
		return nil, err
	}

	tools := repo.NewTools(runner, p.Spec.Package)
	uploader := storage.NewCLIUploader(runner, p.Spec.Publish.Storage.Command)

	// The publisher is only constructed when the release token was
	// resolved. Commands that never reach the publish stage pass empty
	// credentials and must not be rejected for a token they do not need.
	var releaser scm.ReleasePublisher
	if rel := p.Spec.Publish.Release; rel != nil && c.ReleaseToken != "" {
		publisher, err := scm.NewGitLabPublisher(rel, c.ReleaseToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create release publisher: %w", err)
		}
		releaser = publisher
	}

	return []Stage{
		NewCheckoutStage(p.Spec.Source, scm.NewGitProvider(), c.SCMToken, isDryRun),
		NewBuildStage(p.Spec.Build.Modules, moduleBuilder, isDryRun),
		NewCopyArtifactsStage(p.Spec.Package.Artifacts, isDryRun),
		NewSignStage(tools, isDryRun),
		NewRepoMetadataStage(tools, isDryRun),
		NewArchiveStage(isDryRun),
		NewPublishStage(p.Spec.Publish, uploader, releaser, p.Spec.Source.Branch, isDryRun),
	}, nil
}

// newBuilder selects the build runtime. The docker runtime is only
// created for real runs; dry runs never invoke the builder.
func newBuilder(build pipeline.Build, runner command.Runner, isDryRun bool) (builder.Builder, error) {
	switch build.Runtime {
	case "docker":
		if isDryRun {
			return nil, nil
		}
		dockerRuntime, err := runtime.NewDockerRuntime()
		if err != nil {
			return nil, errors.NewRuntimeError(
				"Failed to initialize the Docker build runtime",
				err.Error(),
				"Check that the Docker daemon is running and reachable.",
				err,
			)
		}
		return builder.NewDockerBuilder(dockerRuntime, build.Image), nil
	case "local":
		return builder.NewLocalBuilder(runner), nil
	default:
		return nil, fmt.Errorf("unsupported build runtime: %s", build.Runtime)
	}
}
