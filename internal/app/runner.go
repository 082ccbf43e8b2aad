package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"shipkit/internal/notify"
	"shipkit/internal/ui"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeAborted Outcome = "aborted"
)

// RunResult is the terminal state of one release run. Cause and
// FailedStage are set only for failed and aborted runs.
type RunResult struct {
	Outcome     Outcome
	FailedStage string
	Cause       error
}

// Runner executes the release stages strictly in order. The first stage
// failure ends the run; later stages never execute. The run is bracketed
// by a start notification and exactly one success or failure notification.
type Runner struct {
	stages       []Stage
	notifier     notify.Notifier
	console      *ui.Console
	rc           RunContext
	pipelinePath string
	isDryRun     bool
	retainRecord bool
}

// NewRunner creates a runner over an ordered stage sequence.
func NewRunner(stages []Stage, notifier notify.Notifier, rc RunContext, pipelinePath string, isDryRun, retainRecord bool) *Runner {
	return &Runner{
		stages:       stages,
		notifier:     notifier,
		console:      ui.NewConsole(),
		rc:           rc,
		pipelinePath: pipelinePath,
		isDryRun:     isDryRun,
		retainRecord: retainRecord,
	}
}

// Run drives the full stage sequence. The returned error is the original
// stage error for failed runs and the context error for aborted runs, so
// the caller can surface the root cause; the RunResult carries the same
// information in structured form.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	record := newRecord(r.pipelinePath, uuid.New().String(), r.rc.Version)
	slog.Info("Starting release run", "runId", record.RunID, "job", r.rc.JobName, "version", r.rc.Version, "dryRun", r.isDryRun)

	if r.isDryRun {
		r.console.PrintWarning("DRY RUN MODE - no artifacts will be built or published")
	}

	// A failed start notification is logged but never blocks the run.
	r.deliver(ctx, notify.StartMessage(r.rc.JobName, r.rc.BuildNumber, r.rc.BuildURL))

	total := len(r.stages)
	for i, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return r.abort(record, stage.Name(), err)
		}

		r.console.PrintStage(i+1, total, stage.Name())

		if err := stage.Execute(ctx, r.rc); err != nil {
			return r.fail(ctx, record, stage.Name(), err)
		}

		record.recordStage(stage.Name(), StageSucceeded)
		r.checkpoint(record)
		slog.Info("Stage completed", "stage", stage.Name(), "runId", record.RunID)
	}

	record.Result = string(OutcomeSuccess)
	r.finalize(record)

	r.deliver(ctx, notify.SuccessMessage(r.rc.JobName, r.rc.BuildNumber, r.rc.BuildURL))
	r.console.PrintSuccess(fmt.Sprintf("Release %s completed successfully", r.rc.Version))
	slog.Info("Release run completed", "runId", record.RunID, "version", r.rc.Version)

	return RunResult{Outcome: OutcomeSuccess}, nil
}

// fail records the failed stage, notifies operators, and re-surfaces the
// stage's own error. The notification never masks the stage error.
func (r *Runner) fail(ctx context.Context, record *RunRecord, stageName string, cause error) (RunResult, error) {
	record.recordStage(stageName, StageFailed)
	record.Result = string(OutcomeFailed)
	record.FailedStage = stageName
	r.checkpoint(record)

	slog.Error("Stage failed", "stage", stageName, "runId", record.RunID, "error", cause)
	r.deliver(ctx, notify.FailureMessage(r.rc.JobName, r.rc.BuildNumber, stageName, cause, r.rc.BuildURL))

	return RunResult{Outcome: OutcomeFailed, FailedStage: stageName, Cause: cause}, cause
}

// abort handles context cancellation observed between stages. The pending
// stage never starts and no failure notification goes out: nothing failed,
// the operator ended the run.
func (r *Runner) abort(record *RunRecord, pendingStage string, cause error) (RunResult, error) {
	record.Result = string(OutcomeAborted)
	record.FailedStage = pendingStage
	r.checkpoint(record)

	slog.Warn("Run aborted before stage", "stage", pendingStage, "runId", record.RunID, "reason", cause)
	r.console.PrintWarning(fmt.Sprintf("run aborted before stage %s: %v", pendingStage, cause))

	return RunResult{Outcome: OutcomeAborted, FailedStage: pendingStage, Cause: cause}, cause
}

// deliver sends a notification, downgrading any delivery failure to a
// warning so it cannot change the run result.
func (r *Runner) deliver(ctx context.Context, message string) {
	if r.isDryRun {
		r.console.PrintInfo("DRY RUN: would notify: " + message)
		return
	}
	if err := r.notifier.Notify(ctx, message); err != nil {
		slog.Warn("Notification delivery failed", "error", err)
		r.console.PrintWarning(fmt.Sprintf("notification delivery failed: %v", err))
	}
}

// checkpoint persists the record mid-run. Dry runs leave no record.
func (r *Runner) checkpoint(record *RunRecord) {
	if r.isDryRun {
		return
	}
	if err := saveRecord(record); err != nil {
		slog.Warn("Failed to save run record", "error", err)
	}
}

// finalize writes or removes the record at the end of a successful run.
func (r *Runner) finalize(record *RunRecord) {
	if r.isDryRun {
		return
	}
	if r.retainRecord {
		if err := saveRecord(record); err != nil {
			slog.Warn("Failed to save final run record", "error", err)
		} else {
			slog.Info("Run record retained for auditing", "file", RecordFileName)
		}
		return
	}
	if err := removeRecordFile(); err != nil {
		slog.Warn("Failed to clean up run record", "error", err)
	}
}
