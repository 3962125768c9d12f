package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type SessionRunStatus string

const (
	SessionRunStatusRunning   SessionRunStatus = "RUNNING"
	SessionRunStatusCompleted SessionRunStatus = "COMPLETED"
	SessionRunStatusAbandoned SessionRunStatus = "ABANDONED"
)

const ExitReasonUserExit = "USER_EXIT"

var ErrRunAlreadyFinished = errors.New("session run already finished")

type RunSummary struct {
	ConceptsCreatedCount  int    `json:"concepts_created_count"`
	ConceptsUpdatedCount  int    `json:"concepts_updated_count"`
	ReviewsScheduledCount int    `json:"reviews_scheduled_count"`
	SummaryMd             string `json:"summary_md"`
}

// SessionRun tracks a user's progress through one learning session's ordered
// steps. At most one RUNNING run exists per session; COMPLETED and ABANDONED
// are sinks.
type SessionRun struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	PlanId     uuid.UUID
	UserId     uuid.UUID
	Status     SessionRunStatus
	StepIndex  int
	Inputs     map[string]interface{}
	SavedAt    *time.Time
	ExitReason *string
	Summary    *RunSummary
	StartedAt  time.Time
	EndedAt    *time.Time
}

func (r *SessionRun) IsTerminal() bool {
	return r.Status == SessionRunStatusCompleted || r.Status == SessionRunStatusAbandoned
}

// ClampStepIndex bounds a client-supplied index to [0, stepCount-1].
func ClampStepIndex(index, stepCount int) int {
	if stepCount < 1 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= stepCount {
		return stepCount - 1
	}
	return index
}

// ApplyProgress merges an inputs patch (shallow key overwrite) and moves the
// run to the clamped step index. Inputs accumulate until the run finishes.
func (r *SessionRun) ApplyProgress(stepIndex int, patch map[string]interface{}, stepCount int, now time.Time) error {
	if r.IsTerminal() {
		return ErrRunAlreadyFinished
	}
	r.StepIndex = ClampStepIndex(stepIndex, stepCount)
	if r.Inputs == nil {
		r.Inputs = make(map[string]interface{}, len(patch))
	}
	for k, v := range patch {
		r.Inputs[k] = v
	}
	r.SavedAt = &now
	return nil
}

func (r *SessionRun) Complete(summary RunSummary, now time.Time) error {
	if r.IsTerminal() {
		return ErrRunAlreadyFinished
	}
	r.Status = SessionRunStatusCompleted
	r.EndedAt = &now
	r.Summary = &summary
	return nil
}

func (r *SessionRun) Abandon(reason string, now time.Time) error {
	if r.IsTerminal() {
		return ErrRunAlreadyFinished
	}
	if reason == "" {
		reason = ExitReasonUserExit
	}
	r.Status = SessionRunStatusAbandoned
	r.EndedAt = &now
	r.ExitReason = &reason
	return nil
}
