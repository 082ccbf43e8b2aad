package app

import (
	"testing"

	"shipkit/internal/creds"
	"shipkit/pkg/pipeline"
)

func factoryPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Metadata: pipeline.Metadata{Name: "metrics-release"},
		Spec: pipeline.Spec{
			Source: pipeline.Source{
				Provider:    "git",
				URL:         "https://gitbox.example.org/repos/asf/metrics.git",
				Branch:      "branch-3.0",
				Destination: "./work",
			},
			Build: pipeline.Build{
				Runtime: "local",
				Modules: []pipeline.BuildModule{
					{Name: "metrics", Command: "mvn", Args: []string{"clean", "package"}},
				},
			},
			Package: pipeline.Package{
				ReleaseDir:     "./release",
				Artifacts:      []string{"target/rpm/*/RPMS/*/*.rpm"},
				SignScript:     "/usr/local/bin/sign-rpms",
				RepoCommand:    "createrepo",
				RepoFileScript: "./gen-repo-file.sh",
				ArchiveName:    "metrics",
			},
			Publish: pipeline.Publish{
				Storage: pipeline.Storage{
					Command: "gsutil",
					Bucket:  "gs://releases.example.org",
				},
			},
			Notify: pipeline.Notify{
				Channel:    "#releases",
				WebhookEnv: "SHIPKIT_WEBHOOK_URL",
			},
		},
	}
}

func TestBuildStages_OrderAndNames(t *testing.T) {
	stages, err := BuildStages(factoryPipeline(), &creds.Credentials{}, false)
	if err != nil {
		t.Fatalf("BuildStages failed: %v", err)
	}

	want := []string{"checkout", "build", "copy-artifacts", "sign", "repo-metadata", "archive", "publish"}
	if len(stages) != len(want) {
		t.Fatalf("Got %d stages, want %d", len(stages), len(want))
	}
	for i, name := range want {
		if stages[i].Name() != name {
			t.Errorf("Stage %d = %q, want %q", i, stages[i].Name(), name)
		}
	}
}

func TestBuildStages_ReleasePublisherOnlyWhenConfigured(t *testing.T) {
	p := factoryPipeline()
	stages, err := BuildStages(p, &creds.Credentials{}, false)
	if err != nil {
		t.Fatalf("BuildStages failed: %v", err)
	}

	publish := stages[len(stages)-1].(*PublishStage)
	if publish.releaser != nil {
		t.Error("Expected no release publisher without a publish.release block")
	}

	p.Spec.Publish.Release = &pipeline.Release{
		URL:      "https://gitlab.example.org",
		Project:  "asf/metrics",
		TokenEnv: "SHIPKIT_RELEASE_TOKEN",
	}
	stages, err = BuildStages(p, &creds.Credentials{ReleaseToken: "glpat-release"}, false)
	if err != nil {
		t.Fatalf("BuildStages with release block failed: %v", err)
	}

	publish = stages[len(stages)-1].(*PublishStage)
	if publish.releaser == nil {
		t.Error("Expected a release publisher when publish.release is configured")
	}
}

func TestBuildStages_ReleaseBlockWithoutToken(t *testing.T) {
	// Partial commands (checkout, build, package) resolve no release
	// token; a release-configured blueprint must still yield a stage list.
	p := factoryPipeline()
	p.Spec.Publish.Release = &pipeline.Release{
		URL:      "https://gitlab.example.org",
		Project:  "asf/metrics",
		TokenEnv: "SHIPKIT_RELEASE_TOKEN",
	}

	stages, err := BuildStages(p, &creds.Credentials{}, false)
	if err != nil {
		t.Fatalf("BuildStages without a release token failed: %v", err)
	}
	if len(stages) != 7 {
		t.Fatalf("Got %d stages, want 7", len(stages))
	}

	publish := stages[len(stages)-1].(*PublishStage)
	if publish.releaser != nil {
		t.Error("Expected no release publisher when the token is unresolved")
	}
}

func TestNewBuilder_UnsupportedRuntime(t *testing.T) {
	p := factoryPipeline()
	p.Spec.Build.Runtime = "podman"

	if _, err := BuildStages(p, &creds.Credentials{}, false); err == nil {
		t.Fatal("Expected error for unsupported build runtime")
	}
}
