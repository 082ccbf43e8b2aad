package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shipkit/internal/app"
	"shipkit/internal/creds"
	"shipkit/internal/errors"
	"shipkit/internal/notify"
	"shipkit/internal/parser"
	"shipkit/pkg/pipeline"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "shipkit",
	Short:   "ShipKit - Declarative release pipeline runner",
	Version: version,
	Long: `ShipKit executes a declarative release pipeline from a YAML blueprint:
source checkout, module builds, artifact staging, package signing, repository
metadata, archival, and publication to object storage - bracketed by
start/success/failure notifications.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the complete release pipeline",
	Long: `Run executes every pipeline stage in order: checkout, build,
copy-artifacts, sign, repo-metadata, archive, and publish. The first stage
failure ends the run; later stages never execute. Operators are notified at
start and at the final result.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		retainRecord, _ := cmd.Flags().GetBool("retain-record")

		p, rc := loadPipeline(file)

		// Credentials resolve before any stage or notification. A missing
		// secret fails the run outright with nothing executed.
		c, err := creds.NewEnvProvider().Resolve(p)
		if err != nil {
			exitWithError(errors.NewCredentialError(
				"Failed to resolve pipeline credentials",
				err.Error(),
				"Export the environment variables named in the blueprint before running.",
				err,
			))
		}

		stages, err := app.BuildStages(p, c, dryRun)
		if err != nil {
			exitWithError(err)
		}

		notifier, err := notify.NewWebhookNotifier(c.WebhookURL, p.Spec.Notify.Channel)
		if err != nil {
			exitWithError(errors.NewNotifyError(
				"Failed to configure the webhook notifier",
				err.Error(),
				"Check the webhook URL in the environment variable named by notify.webhookEnv.",
				err,
			))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := app.NewRunner(stages, notifier, rc, file, dryRun, retainRecord)
		if _, err := runner.Run(ctx); err != nil {
			exitWithError(err)
		}
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out the release branch only",
	Long: `Checkout clones the release branch declared in the blueprint into the
working directory without running the rest of the pipeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		p, rc := loadPipeline(file)
		c := partialCredentials(p, true, false)

		executeSubset(p, rc, c, dryRun, "checkout")
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the build modules only",
	Long: `Build runs every build module in declared order through the configured
build runtime against an existing checkout.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		p, rc := loadPipeline(file)

		executeSubset(p, rc, &creds.Credentials{}, dryRun, "build")
	},
}

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Stage, sign, index, and archive built artifacts",
	Long: `Package runs the packaging stages against an existing build: staging
artifacts into the release directory, signing them, generating repository
metadata and the repo descriptor, and archiving the release directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		p, rc := loadPipeline(file)

		executeSubset(p, rc, &creds.Credentials{}, dryRun, "copy-artifacts", "sign", "repo-metadata", "archive")
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a packaged release",
	Long: `Publish uploads an existing release directory and archive to object
storage, refreshes the bucket website configuration, and records the release
tag when one is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		p, rc := loadPipeline(file)
		c := partialCredentials(p, false, true)

		executeSubset(p, rc, c, dryRun, "publish")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the run record of the last release run",
	Run: func(cmd *cobra.Command, args []string) {
		record, err := app.LoadRecord()
		if err != nil {
			exitWithError(err)
		}
		if record == nil {
			fmt.Println("No run record found in the current directory.")
			return
		}

		fmt.Printf("Run:      %s\n", record.RunID)
		fmt.Printf("Pipeline: %s\n", record.PipelinePath)
		fmt.Printf("Version:  %s\n", record.Version)
		result := record.Result
		if result == "" {
			result = "in progress"
		}
		fmt.Printf("Result:   %s\n", result)
		if record.FailedStage != "" {
			fmt.Printf("Failed:   %s\n", record.FailedStage)
		}
		for _, stage := range record.Stages {
			fmt.Printf("  %-15s %s  %s\n", stage.Name, stage.Status, stage.CompletedAt.Format("2006-01-02 15:04:05"))
		}
	},
}

// loadPipeline parses the blueprint and derives the run context, exiting
// on any failure.
func loadPipeline(file string) (*pipeline.Pipeline, app.RunContext) {
	p, err := parser.Parse(file)
	if err != nil {
		exitWithError(err)
	}

	rc, err := app.NewRunContext(p)
	if err != nil {
		exitWithError(errors.NewConfigError(
			"Failed to derive the run context",
			err.Error(),
			"BUILD_NUMBER and RELEASE_NUMBER must be exported by the hosting environment.",
			err,
		))
	}

	return p, rc
}

// partialCredentials resolves only the secrets a partial command needs,
// so `shipkit build` does not demand the webhook URL.
func partialCredentials(p *pipeline.Pipeline, needSCM, needRelease bool) *creds.Credentials {
	c := &creds.Credentials{}

	if needSCM && p.Spec.Source.TokenEnv != "" {
		c.SCMToken = os.Getenv(p.Spec.Source.TokenEnv)
		if c.SCMToken == "" {
			exitWithError(errors.NewCredentialError(
				"Failed to resolve the source token",
				fmt.Sprintf("environment variable %s is not set", p.Spec.Source.TokenEnv),
				"Export the token variable named by source.tokenEnv.",
				nil,
			))
		}
	}

	if needRelease && p.Spec.Publish.Release != nil {
		c.ReleaseToken = os.Getenv(p.Spec.Publish.Release.TokenEnv)
		if c.ReleaseToken == "" {
			exitWithError(errors.NewCredentialError(
				"Failed to resolve the release token",
				fmt.Sprintf("environment variable %s is not set", p.Spec.Publish.Release.TokenEnv),
				"Export the token variable named by publish.release.tokenEnv.",
				nil,
			))
		}
	}

	return c
}

// executeSubset runs the named stages directly, without notifications or
// a run record. Partial commands exist for operators re-driving one phase
// by hand; only `run` brackets the full sequence.
func executeSubset(p *pipeline.Pipeline, rc app.RunContext, c *creds.Credentials, dryRun bool, names ...string) {
	stages, err := app.BuildStages(p, c, dryRun)
	if err != nil {
		exitWithError(err)
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, stage := range stages {
		if !wanted[stage.Name()] {
			continue
		}
		fmt.Printf("Running stage: %s\n", stage.Name())
		if err := stage.Execute(ctx, rc); err != nil {
			exitWithError(err)
		}
	}
}

func exitWithError(err error) {
	errors.HandleError(err)
	os.Exit(1)
}

func init() {
	runCmd.Flags().StringP("file", "f", "", "Path to the pipeline YAML file (required)")
	runCmd.Flags().Bool("dry-run", false, "Print what each stage would do without executing it")
	runCmd.Flags().Bool("retain-record", false, "Keep the run record after successful completion for auditing purposes")
	if err := runCmd.MarkFlagRequired("file"); err != nil {
		slog.Error("Failed to mark file flag as required for run command", "error", err)
	}
	rootCmd.AddCommand(runCmd)

	for _, cmd := range []*cobra.Command{checkoutCmd, buildCmd, packageCmd, publishCmd} {
		cmd.Flags().StringP("file", "f", "", "Path to the pipeline YAML file (required)")
		cmd.Flags().Bool("dry-run", false, "Print what the stage would do without executing it")
		if err := cmd.MarkFlagRequired("file"); err != nil {
			slog.Error("Failed to mark file flag as required", "command", cmd.Use, "error", err)
		}
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
