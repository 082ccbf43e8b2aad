package notify

import (
	"context"
	"fmt"
)

// Notifier broadcasts human-readable run status to operators.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// StartMessage announces a run. buildURL may be empty when the hosting
// environment exposes none.
func StartMessage(jobName, buildNumber, buildURL string) string {
	return withBuildURL(fmt.Sprintf("STARTED: release job '%s' build #%s", jobName, buildNumber), buildURL)
}

// SuccessMessage announces a fully completed run.
func SuccessMessage(jobName, buildNumber, buildURL string) string {
	return withBuildURL(fmt.Sprintf("SUCCESS: release job '%s' build #%s", jobName, buildNumber), buildURL)
}

// FailureMessage announces a failed run, naming the stage that failed and
// the originating cause.
func FailureMessage(jobName, buildNumber, stageName string, cause error, buildURL string) string {
	return withBuildURL(fmt.Sprintf("FAILED: release job '%s' build #%s at stage '%s': %v", jobName, buildNumber, stageName, cause), buildURL)
}

func withBuildURL(message, buildURL string) string {
	if buildURL == "" {
		return message
	}
	return fmt.Sprintf("%s (%s)", message, buildURL)
}
