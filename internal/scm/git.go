package scm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"shipkit/pkg/pipeline"
)

// GitProvider implements SourceProvider with a plain git clone.
type GitProvider struct{}

func NewGitProvider() *GitProvider {
	return &GitProvider{}
}

// Checkout clones the release branch into the configured destination and
// returns the resulting working directory. The destination must not already
// contain a checkout; a stale working directory would make stage inputs
// depend on a previous run.
func (g *GitProvider) Checkout(ctx context.Context, src pipeline.Source, token string) (string, error) {
	dest := src.Destination

	if entries, err := os.ReadDir(dest); err == nil && len(entries) > 0 {
		return "", fmt.Errorf("checkout destination is not empty: %s", dest)
	}

	slog.Info("Cloning release branch", "url", src.URL, "branch", src.Branch, "destination", dest)

	opts := &git.CloneOptions{
		URL:           src.URL,
		ReferenceName: plumbing.NewBranchReferenceName(src.Branch),
		SingleBranch:  true,
	}

	if token != "" {
		// Token auth over HTTPS; the username is ignored by most providers
		opts.Auth = &http.BasicAuth{
			Username: "oauth2",
			Password: token,
		}
	}

	if _, err := git.PlainCloneContext(ctx, dest, false, opts); err != nil {
		return "", fmt.Errorf("failed to clone %s (branch %s): %w", src.URL, src.Branch, err)
	}

	slog.Info("Checkout completed", "destination", dest)
	return dest, nil
}
