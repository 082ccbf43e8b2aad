package app

import (
	"os"
	"testing"
)

func TestRunRecord_SaveAndLoad(t *testing.T) {
	chdir(t, t.TempDir())

	record := newRecord("shipkit.yaml", "run-123", "3.0.0.17")
	record.recordStage("checkout", StageSucceeded)
	record.recordStage("build", StageFailed)
	record.Result = string(OutcomeFailed)
	record.FailedStage = "build"

	if err := saveRecord(record); err != nil {
		t.Fatalf("saveRecord failed: %v", err)
	}

	loaded, err := LoadRecord()
	if err != nil {
		t.Fatalf("LoadRecord failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a record")
	}

	if loaded.RunID != "run-123" {
		t.Errorf("RunID = %q, want %q", loaded.RunID, "run-123")
	}
	if loaded.Version != "3.0.0.17" {
		t.Errorf("Version = %q, want %q", loaded.Version, "3.0.0.17")
	}
	if len(loaded.Stages) != 2 {
		t.Fatalf("Stages = %d, want 2", len(loaded.Stages))
	}
	if loaded.Stages[1].Name != "build" || loaded.Stages[1].Status != StageFailed {
		t.Errorf("Second stage = %+v, want a failed build", loaded.Stages[1])
	}
	if loaded.FailedStage != "build" {
		t.Errorf("FailedStage = %q, want %q", loaded.FailedStage, "build")
	}
}

func TestLoadRecord_NoFile(t *testing.T) {
	chdir(t, t.TempDir())

	record, err := LoadRecord()
	if err != nil {
		t.Fatalf("LoadRecord failed: %v", err)
	}
	if record != nil {
		t.Errorf("Expected nil record for a fresh directory, got %+v", record)
	}
}

func TestLoadRecord_Corrupt(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile(RecordFileName, []byte("not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt record: %v", err)
	}

	if _, err := LoadRecord(); err == nil {
		t.Fatal("Expected error for corrupt record file")
	}
}

func TestRemoveRecordFile(t *testing.T) {
	chdir(t, t.TempDir())

	if err := removeRecordFile(); err != nil {
		t.Errorf("removeRecordFile on missing file should be a no-op, got: %v", err)
	}

	if err := saveRecord(newRecord("shipkit.yaml", "run-1", "1.0.0.1")); err != nil {
		t.Fatalf("saveRecord failed: %v", err)
	}
	if err := removeRecordFile(); err != nil {
		t.Fatalf("removeRecordFile failed: %v", err)
	}
	if _, err := os.Stat(RecordFileName); !os.IsNotExist(err) {
		t.Error("Record file should be gone")
	}
}

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup. (testing.T.Chdir needs Go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
