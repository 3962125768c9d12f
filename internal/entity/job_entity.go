package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeMaterialProcessing JobType = "MATERIAL_PROCESSING"
	JobTypePlanGeneration     JobType = "PLAN_GENERATION"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

var ErrJobTerminal = errors.New("job already reached a terminal state")

// Job is an asynchronous unit of work (material processing or plan generation).
// Only the worker that picked it up mutates it; terminal states are immutable.
type Job struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Type         JobType
	Status       JobStatus
	Progress     *float64 // 0..1, nil until the worker reports progress
	CurrentStep  *string
	Payload      map[string]interface{}
	Result       map[string]interface{} // non-nil iff SUCCEEDED
	ErrorCode    *string                // non-nil iff FAILED
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}

// Start moves a queued job to RUNNING.
func (j *Job) Start() error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}
	j.Status = JobStatusRunning
	return nil
}

// Advance records a progress fraction and the step the worker is on.
// Progress never regresses; stale reports are ignored.
func (j *Job) Advance(fraction float64, step string) error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if j.Progress == nil || fraction > *j.Progress {
		j.Progress = &fraction
	}
	j.CurrentStep = &step
	return nil
}

func (j *Job) Succeed(result map[string]interface{}) error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}
	one := 1.0
	j.Status = JobStatusSucceeded
	j.Progress = &one
	j.CurrentStep = nil
	j.Result = result
	j.ErrorCode = nil
	j.ErrorMessage = nil
	return nil
}

func (j *Job) Fail(code, message string) error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}
	j.Status = JobStatusFailed
	j.CurrentStep = nil
	j.Result = nil
	j.ErrorCode = &code
	j.ErrorMessage = &message
	return nil
}
