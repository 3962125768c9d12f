package entity

import (
	"errors"
	"testing"
)

func TestJobTransitions(t *testing.T) {
	t.Run("queued to running", func(t *testing.T) {
		job := &Job{Status: JobStatusQueued}
		if err := job.Start(); err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
		if job.Status != JobStatusRunning {
			t.Errorf("Status = %s, want RUNNING", job.Status)
		}
	})

	t.Run("succeed sets result and clears error fields", func(t *testing.T) {
		job := &Job{Status: JobStatusRunning}
		if err := job.Succeed(map[string]interface{}{"material_id": "abc"}); err != nil {
			t.Fatalf("Succeed returned error: %v", err)
		}
		if job.Status != JobStatusSucceeded {
			t.Errorf("Status = %s, want SUCCEEDED", job.Status)
		}
		if job.Result == nil {
			t.Error("Result is nil after Succeed")
		}
		if job.ErrorCode != nil || job.ErrorMessage != nil {
			t.Error("error fields set on a succeeded job")
		}
		if job.Progress == nil || *job.Progress != 1.0 {
			t.Errorf("Progress = %v, want 1.0", job.Progress)
		}
		if job.CurrentStep != nil {
			t.Errorf("CurrentStep = %v, want nil on terminal job", *job.CurrentStep)
		}
	})

	t.Run("fail sets error and clears result", func(t *testing.T) {
		job := &Job{Status: JobStatusRunning, Result: map[string]interface{}{"stale": true}}
		if err := job.Fail("EXTRACTION_FAILED", "no text layer"); err != nil {
			t.Fatalf("Fail returned error: %v", err)
		}
		if job.Status != JobStatusFailed {
			t.Errorf("Status = %s, want FAILED", job.Status)
		}
		if job.Result != nil {
			t.Error("Result still set on a failed job")
		}
		if job.ErrorCode == nil || *job.ErrorCode != "EXTRACTION_FAILED" {
			t.Errorf("ErrorCode = %v, want EXTRACTION_FAILED", job.ErrorCode)
		}
		if job.ErrorMessage == nil || *job.ErrorMessage != "no text layer" {
			t.Errorf("ErrorMessage = %v", job.ErrorMessage)
		}
	})

	t.Run("terminal states are immutable", func(t *testing.T) {
		for _, status := range []JobStatus{JobStatusSucceeded, JobStatusFailed} {
			job := &Job{Status: status}

			if err := job.Start(); !errors.Is(err, ErrJobTerminal) {
				t.Errorf("Start on %s: err = %v, want ErrJobTerminal", status, err)
			}
			if err := job.Advance(0.5, "PROCESSING"); !errors.Is(err, ErrJobTerminal) {
				t.Errorf("Advance on %s: err = %v, want ErrJobTerminal", status, err)
			}
			if err := job.Succeed(nil); !errors.Is(err, ErrJobTerminal) {
				t.Errorf("Succeed on %s: err = %v, want ErrJobTerminal", status, err)
			}
			if err := job.Fail("X", "y"); !errors.Is(err, ErrJobTerminal) {
				t.Errorf("Fail on %s: err = %v, want ErrJobTerminal", status, err)
			}
			if job.Status != status {
				t.Errorf("Status mutated from %s to %s", status, job.Status)
			}
		}
	})
}

func TestJobAdvance(t *testing.T) {
	t.Run("progress never regresses", func(t *testing.T) {
		job := &Job{Status: JobStatusRunning}

		if err := job.Advance(0.6, "ANALYZING"); err != nil {
			t.Fatalf("Advance returned error: %v", err)
		}
		if err := job.Advance(0.3, "STORING"); err != nil {
			t.Fatalf("Advance returned error: %v", err)
		}

		if *job.Progress != 0.6 {
			t.Errorf("Progress = %v, want 0.6 after stale report", *job.Progress)
		}
		// the step label still follows the latest report
		if job.CurrentStep == nil || *job.CurrentStep != "STORING" {
			t.Errorf("CurrentStep = %v, want STORING", job.CurrentStep)
		}
	})

	t.Run("fraction is clamped to [0,1]", func(t *testing.T) {
		job := &Job{Status: JobStatusRunning}

		if err := job.Advance(-0.4, "A"); err != nil {
			t.Fatalf("Advance returned error: %v", err)
		}
		if *job.Progress != 0 {
			t.Errorf("Progress = %v, want 0", *job.Progress)
		}

		if err := job.Advance(1.7, "B"); err != nil {
			t.Fatalf("Advance returned error: %v", err)
		}
		if *job.Progress != 1 {
			t.Errorf("Progress = %v, want 1", *job.Progress)
		}
	})
}
