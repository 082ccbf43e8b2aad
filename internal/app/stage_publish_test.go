package app

import (
	"context"
	"strings"
	"testing"

	"shipkit/pkg/pipeline"
)

type fakeUploader struct {
	uploads []string
	website bool
}

func (u *fakeUploader) Upload(ctx context.Context, localPath, remoteURI string, recursive bool) error {
	u.uploads = append(u.uploads, remoteURI)
	return nil
}

func (u *fakeUploader) SetWebsiteConfig(ctx context.Context, bucket, indexDocument string) error {
	u.website = true
	return nil
}

type fakeReleaser struct {
	tagged string
}

func (r *fakeReleaser) PublishTag(version, ref string) error {
	r.tagged = version
	return nil
}

func publishConfig(withRelease bool) pipeline.Publish {
	p := pipeline.Publish{
		Storage: pipeline.Storage{
			Command:      "gsutil",
			Bucket:       "gs://releases.example.org",
			WebsiteIndex: "index.html",
		},
	}
	if withRelease {
		p.Release = &pipeline.Release{
			URL:      "https://gitlab.example.org",
			Project:  "asf/metrics",
			TokenEnv: "SHIPKIT_RELEASE_TOKEN",
		}
	}
	return p
}

func TestPublishStage_Execute(t *testing.T) {
	uploader := &fakeUploader{}
	releaser := &fakeReleaser{}
	stage := NewPublishStage(publishConfig(true), uploader, releaser, "branch-3.0", false)

	rc := testRunContext()
	if err := stage.Execute(context.Background(), rc); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(uploader.uploads) != 2 {
		t.Fatalf("Got %d uploads, want the release dir and the archive", len(uploader.uploads))
	}
	if uploader.uploads[0] != "gs://releases.example.org/3.0.0.17" {
		t.Errorf("Release dir uploaded to %q, want the versioned prefix", uploader.uploads[0])
	}
	if !uploader.website {
		t.Error("Website configuration was not refreshed")
	}
	if releaser.tagged != rc.Version {
		t.Errorf("Tagged version = %q, want %q", releaser.tagged, rc.Version)
	}
}

func TestPublishStage_Execute_ReleaseConfiguredWithoutPublisher(t *testing.T) {
	uploader := &fakeUploader{}
	stage := NewPublishStage(publishConfig(true), uploader, nil, "branch-3.0", false)

	err := stage.Execute(context.Background(), testRunContext())
	if err == nil {
		t.Fatal("Expected error when a release block has no resolved token")
	}
	if !strings.Contains(err.Error(), "release token") {
		t.Errorf("Expected the error to name the missing token, got: %v", err)
	}
	if len(uploader.uploads) != 0 {
		t.Errorf("Nothing should upload before the token check, got %d uploads", len(uploader.uploads))
	}
}

func TestPublishStage_Execute_NoReleaseBlock(t *testing.T) {
	uploader := &fakeUploader{}
	stage := NewPublishStage(publishConfig(false), uploader, nil, "branch-3.0", false)

	if err := stage.Execute(context.Background(), testRunContext()); err != nil {
		t.Fatalf("Execute without a release block failed: %v", err)
	}
	if len(uploader.uploads) != 2 {
		t.Errorf("Got %d uploads, want 2", len(uploader.uploads))
	}
}
