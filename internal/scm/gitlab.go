package scm

import (
	"fmt"
	"log/slog"
	"strings"

	gitlab "github.com/xanzy/go-gitlab"

	"shipkit/pkg/pipeline"
)

// GitLabPublisher implements ReleasePublisher against the GitLab API.
// After a successful publish it records the release as a tag on the source
// project so package consumers can trace a repo back to its exact commit.
type GitLabPublisher struct {
	client  *gitlab.Client
	project string
}

// NewGitLabPublisher creates a publisher for the configured project.
func NewGitLabPublisher(rel *pipeline.Release, token string) (*GitLabPublisher, error) {
	if token == "" {
		return nil, fmt.Errorf("release publishing requires a token (env %s)", rel.TokenEnv)
	}

	baseURL := strings.TrimSuffix(rel.URL, "/") + "/api/v4"
	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabPublisher{
		client:  client,
		project: rel.Project,
	}, nil
}

// PublishTag creates tag v<version> pointing at ref on the source project.
// An existing tag with the same name is left untouched.
func (p *GitLabPublisher) PublishTag(version, ref string) error {
	tagName := "v" + version

	slog.Info("Publishing release tag", "project", p.project, "tag", tagName, "ref", ref)

	existing, _, err := p.client.Tags.GetTag(p.project, tagName)
	if err == nil && existing != nil {
		slog.Warn("Release tag already exists, skipping creation", "project", p.project, "tag", tagName)
		return nil
	}

	opts := &gitlab.CreateTagOptions{
		TagName: gitlab.String(tagName),
		Ref:     gitlab.String(ref),
		Message: gitlab.String(fmt.Sprintf("Release %s", version)),
	}

	tag, _, err := p.client.Tags.CreateTag(p.project, opts)
	if err != nil {
		return fmt.Errorf("failed to create release tag %s: %w", tagName, err)
	}

	slog.Info("Release tag created", "project", p.project, "tag", tag.Name)
	return nil
}
