package entity

import (
	"errors"
	"testing"
	"time"
)

func TestClampStepIndex(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		stepCount int
		want      int
	}{
		{name: "within bounds", index: 2, stepCount: 5, want: 2},
		{name: "negative index", index: -3, stepCount: 5, want: 0},
		{name: "past last step", index: 9, stepCount: 5, want: 4},
		{name: "exactly step count", index: 5, stepCount: 5, want: 4},
		{name: "zero step count", index: 3, stepCount: 0, want: 0},
		{name: "single step", index: 0, stepCount: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampStepIndex(tt.index, tt.stepCount)
			if got != tt.want {
				t.Errorf("ClampStepIndex(%d, %d) = %d, want %d", tt.index, tt.stepCount, got, tt.want)
			}
		})
	}
}

func TestSessionRunApplyProgress(t *testing.T) {
	now := time.Now()

	t.Run("merges inputs shallowly", func(t *testing.T) {
		run := &SessionRun{
			Status: SessionRunStatusRunning,
			Inputs: map[string]interface{}{"q1": "old", "q2": "kept"},
		}

		err := run.ApplyProgress(1, map[string]interface{}{"q1": "new", "q3": "added"}, 3, now)
		if err != nil {
			t.Fatalf("ApplyProgress returned error: %v", err)
		}

		if run.StepIndex != 1 {
			t.Errorf("StepIndex = %d, want 1", run.StepIndex)
		}
		if run.Inputs["q1"] != "new" {
			t.Errorf("Inputs[q1] = %v, want overwritten value", run.Inputs["q1"])
		}
		if run.Inputs["q2"] != "kept" {
			t.Errorf("Inputs[q2] = %v, want untouched value", run.Inputs["q2"])
		}
		if run.Inputs["q3"] != "added" {
			t.Errorf("Inputs[q3] = %v, want patched value", run.Inputs["q3"])
		}
		if run.SavedAt == nil || !run.SavedAt.Equal(now) {
			t.Errorf("SavedAt = %v, want %v", run.SavedAt, now)
		}
	})

	t.Run("initializes nil inputs", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusRunning}

		if err := run.ApplyProgress(0, map[string]interface{}{"a": 1}, 2, now); err != nil {
			t.Fatalf("ApplyProgress returned error: %v", err)
		}
		if run.Inputs["a"] != 1 {
			t.Errorf("Inputs[a] = %v, want 1", run.Inputs["a"])
		}
	})

	t.Run("clamps out-of-range step index", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusRunning}

		if err := run.ApplyProgress(99, nil, 4, now); err != nil {
			t.Fatalf("ApplyProgress returned error: %v", err)
		}
		if run.StepIndex != 3 {
			t.Errorf("StepIndex = %d, want 3", run.StepIndex)
		}
	})

	t.Run("rejects finished runs", func(t *testing.T) {
		for _, status := range []SessionRunStatus{SessionRunStatusCompleted, SessionRunStatusAbandoned} {
			run := &SessionRun{Status: status, StepIndex: 2}

			err := run.ApplyProgress(0, map[string]interface{}{"x": 1}, 5, now)
			if !errors.Is(err, ErrRunAlreadyFinished) {
				t.Errorf("status %s: err = %v, want ErrRunAlreadyFinished", status, err)
			}
			if run.StepIndex != 2 {
				t.Errorf("status %s: StepIndex mutated to %d", status, run.StepIndex)
			}
			if run.Inputs != nil {
				t.Errorf("status %s: Inputs mutated", status)
			}
		}
	})
}

func TestSessionRunComplete(t *testing.T) {
	now := time.Now()

	t.Run("running run completes", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusRunning}
		summary := RunSummary{ConceptsCreatedCount: 2, ReviewsScheduledCount: 2, SummaryMd: "## Done"}

		if err := run.Complete(summary, now); err != nil {
			t.Fatalf("Complete returned error: %v", err)
		}
		if run.Status != SessionRunStatusCompleted {
			t.Errorf("Status = %s, want COMPLETED", run.Status)
		}
		if run.EndedAt == nil || !run.EndedAt.Equal(now) {
			t.Errorf("EndedAt = %v, want %v", run.EndedAt, now)
		}
		if run.Summary == nil || run.Summary.ConceptsCreatedCount != 2 {
			t.Errorf("Summary not recorded: %+v", run.Summary)
		}
	})

	t.Run("terminal states are sinks", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusAbandoned}
		if err := run.Complete(RunSummary{}, now); !errors.Is(err, ErrRunAlreadyFinished) {
			t.Errorf("err = %v, want ErrRunAlreadyFinished", err)
		}
		if run.Status != SessionRunStatusAbandoned {
			t.Errorf("Status changed to %s", run.Status)
		}
	})
}

func TestSessionRunAbandon(t *testing.T) {
	now := time.Now()

	t.Run("records reason", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusRunning}
		if err := run.Abandon("TIMEOUT", now); err != nil {
			t.Fatalf("Abandon returned error: %v", err)
		}
		if run.Status != SessionRunStatusAbandoned {
			t.Errorf("Status = %s, want ABANDONED", run.Status)
		}
		if run.ExitReason == nil || *run.ExitReason != "TIMEOUT" {
			t.Errorf("ExitReason = %v, want TIMEOUT", run.ExitReason)
		}
	})

	t.Run("empty reason defaults to user exit", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusRunning}
		if err := run.Abandon("", now); err != nil {
			t.Fatalf("Abandon returned error: %v", err)
		}
		if run.ExitReason == nil || *run.ExitReason != ExitReasonUserExit {
			t.Errorf("ExitReason = %v, want %s", run.ExitReason, ExitReasonUserExit)
		}
	})

	t.Run("completed run cannot be abandoned", func(t *testing.T) {
		run := &SessionRun{Status: SessionRunStatusCompleted}
		if err := run.Abandon("TIMEOUT", now); !errors.Is(err, ErrRunAlreadyFinished) {
			t.Errorf("err = %v, want ErrRunAlreadyFinished", err)
		}
	})
}
