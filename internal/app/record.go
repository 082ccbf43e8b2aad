package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StageStatus is the terminal status of one executed stage.
type StageStatus string

const (
	StageSucceeded StageStatus = "succeeded"
	StageFailed    StageStatus = "failed"
)

// StageRecord captures the outcome of one stage within a run.
type StageRecord struct {
	Name        string      `json:"name"`
	Status      StageStatus `json:"status"`
	CompletedAt time.Time   `json:"completed_at"`
}

// RunRecord is the audit trail of a release run. It is written after
// every stage and finalized with the run result. The record is never
// consulted to skip stages: every run executes the full sequence.
type RunRecord struct {
	SchemaVersion string        `json:"schema_version"`
	RunID         string        `json:"run_id"`
	PipelinePath  string        `json:"pipeline_path"`
	Version       string        `json:"version"`
	Stages        []StageRecord `json:"stages"`
	Result        string        `json:"result,omitempty"`
	FailedStage   string        `json:"failed_stage,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	LastUpdatedAt time.Time     `json:"last_updated_at"`
}

const (
	RecordFileName      = ".shipkit.run.json"
	RecordSchemaVersion = "1.0"
)

// newRecord creates the record for a fresh run.
func newRecord(pipelinePath, runID, version string) *RunRecord {
	now := time.Now()
	return &RunRecord{
		SchemaVersion: RecordSchemaVersion,
		RunID:         runID,
		PipelinePath:  pipelinePath,
		Version:       version,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// recordStage appends a stage outcome.
func (r *RunRecord) recordStage(name string, status StageStatus) {
	r.Stages = append(r.Stages, StageRecord{
		Name:        name,
		Status:      status,
		CompletedAt: time.Now(),
	})
}

// LoadRecord reads the run record from the working directory. Returns
// nil without error when no record exists.
func LoadRecord() (*RunRecord, error) {
	if _, err := os.Stat(RecordFileName); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(RecordFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}

	return &record, nil
}

// saveRecord persists the record to the working directory.
func saveRecord(record *RunRecord) error {
	record.LastUpdatedAt = time.Now()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run record: %w", err)
	}

	if err := os.WriteFile(RecordFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	return nil
}

// removeRecordFile deletes the run record after a successful run.
func removeRecordFile() error {
	if _, err := os.Stat(RecordFileName); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(RecordFileName); err != nil {
		return fmt.Errorf("failed to remove run record: %w", err)
	}

	return nil
}
