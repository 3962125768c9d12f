package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartRunRequest struct {
	SessionId uuid.UUID              `json:"session_id" validate:"required"`
	Inputs    map[string]interface{} `json:"inputs"`
}

type ShowRunResponse struct {
	Id          uuid.UUID              `json:"id"`
	SessionId   uuid.UUID              `json:"session_id"`
	Status      string                 `json:"status"`
	StepIndex   int                    `json:"step_index"`
	Inputs      map[string]interface{} `json:"inputs"`
	Summary     *RunSummaryResponse    `json:"summary,omitempty"`
	ExitReason  *string                `json:"exit_reason,omitempty"`
	SavedAt     *time.Time             `json:"saved_at,omitempty"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

type StartRunResponse struct {
	Run        ShowRunResponse `json:"run"`
	IsRecovery bool            `json:"is_recovery"`
}

type SaveRunProgressRequest struct {
	RunId     uuid.UUID
	// StepIndex is accepted as-is; out-of-range values are clamped to the
	// blueprint bounds when the run applies them, never rejected.
	StepIndex int                    `json:"step_index"`
	Inputs    map[string]interface{} `json:"inputs"`
}

type RunSummaryResponse struct {
	ConceptsCreatedCount  int     `json:"concepts_created_count"`
	ConceptsUpdatedCount  int     `json:"concepts_updated_count"`
	ReviewsScheduledCount int     `json:"reviews_scheduled_count"`
	SummaryMd             *string `json:"summary_md,omitempty"`
}

type CompleteRunRequest struct {
	RunId    uuid.UUID
	Concepts []RunConceptResult `json:"concepts" validate:"dive"`
}

// RunConceptResult is one concept the learner worked through during the
// session, used to upsert concepts and schedule reviews on completion.
type RunConceptResult struct {
	Name    string `json:"name" validate:"required,max=200"`
	Summary string `json:"summary"`
	Grade   int    `json:"grade" validate:"min=0,max=5"`
}

type AbandonRunRequest struct {
	RunId  uuid.UUID
	Reason string `json:"reason" validate:"omitempty,max=100"`
}
