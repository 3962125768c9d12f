package dto

import (
	"time"

	"github.com/google/uuid"
)

type DueReviewResponse struct {
	ConceptId      uuid.UUID `json:"concept_id"`
	ConceptName    string    `json:"concept_name"`
	ConceptSummary string    `json:"concept_summary"`
	DueAt          time.Time `json:"due_at"`
	IntervalDays   int       `json:"interval_days"`
	Repetition     int       `json:"repetition"`
}

type ListDueReviewsResponse struct {
	Reviews []DueReviewResponse `json:"reviews"`
	Total   int64               `json:"total"`
}

type GradeReviewRequest struct {
	ConceptId uuid.UUID
	Grade     int `json:"grade" validate:"min=0,max=5"`
}

type GradeReviewResponse struct {
	ConceptId    uuid.UUID `json:"concept_id"`
	NextDueAt    time.Time `json:"next_due_at"`
	IntervalDays int       `json:"interval_days"`
	Ease         float64   `json:"ease"`
	Repetition   int       `json:"repetition"`
}
