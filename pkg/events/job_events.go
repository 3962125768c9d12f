package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeJobCompleted = "JOB_COMPLETED"
	TypeJobFailed    = "JOB_FAILED"
	TypePlanReady    = "PLAN_READY"
)

// NewJobCompletedEvent is emitted when a background job reaches SUCCEEDED.
func NewJobCompletedEvent(userId, jobId uuid.UUID, jobType string, result map[string]interface{}) Event {
	return BaseEvent{
		Type: TypeJobCompleted,
		Data: map[string]interface{}{
			"user_id":  userId.String(),
			"job_id":   jobId.String(),
			"job_type": jobType,
			"result":   result,
		},
		OccurredAt: time.Now(),
	}
}

// NewJobFailedEvent is emitted when a background job reaches FAILED.
func NewJobFailedEvent(userId, jobId uuid.UUID, jobType, errorCode, errorMessage string) Event {
	return BaseEvent{
		Type: TypeJobFailed,
		Data: map[string]interface{}{
			"user_id":       userId.String(),
			"job_id":        jobId.String(),
			"job_type":      jobType,
			"error_code":    errorCode,
			"error_message": errorMessage,
		},
		OccurredAt: time.Now(),
	}
}

// NewPlanReadyEvent is emitted when plan generation finishes and the plan is
// ready to study.
func NewPlanReadyEvent(userId, planId uuid.UUID, title string) Event {
	return BaseEvent{
		Type: TypePlanReady,
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"plan_id": planId.String(),
			"title":   title,
		},
		OccurredAt: time.Now(),
	}
}
