package creds

import (
	"fmt"
	"os"

	"shipkit/pkg/pipeline"
)

// Credentials holds the run-scoped secrets. They are resolved once before
// any stage executes and handed to the components that need them; they are
// never stored in the run context.
type Credentials struct {
	SCMToken     string
	ReleaseToken string
	WebhookURL   string
}

// Provider resolves the secrets a pipeline declares.
type Provider interface {
	Resolve(p *pipeline.Pipeline) (*Credentials, error)
}

// EnvProvider resolves credentials from environment variables named by the
// pipeline blueprint.
type EnvProvider struct{}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Resolve looks up every secret the pipeline requires. A declared but
// unset variable fails the whole run before any stage starts.
func (e *EnvProvider) Resolve(p *pipeline.Pipeline) (*Credentials, error) {
	c := &Credentials{}

	webhookURL, err := required(p.Spec.Notify.WebhookEnv)
	if err != nil {
		return nil, err
	}
	c.WebhookURL = webhookURL

	// The source token is optional; public release branches clone anonymously.
	if env := p.Spec.Source.TokenEnv; env != "" {
		token, err := required(env)
		if err != nil {
			return nil, err
		}
		c.SCMToken = token
	}

	if rel := p.Spec.Publish.Release; rel != nil {
		token, err := required(rel.TokenEnv)
		if err != nil {
			return nil, err
		}
		c.ReleaseToken = token
	}

	return c, nil
}

func required(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("required credential environment variable %s is not set", name)
	}
	return value, nil
}
