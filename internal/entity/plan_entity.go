package entity

import (
	"time"

	"github.com/google/uuid"
)

type PlanStatus string

const (
	PlanStatusPending    PlanStatus = "PENDING"
	PlanStatusGenerating PlanStatus = "GENERATING"
	PlanStatusReady      PlanStatus = "READY"
	PlanStatusFailed     PlanStatus = "FAILED"
)

// Plan is an AI-generated learning curriculum derived from one or more materials.
type Plan struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Goal        string
	Status      PlanStatus
	SummaryMd   string
	MaterialIds []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

// BlueprintStep is one ordered step of a session's blueprint.
type BlueprintStep struct {
	Title  string `json:"title"`
	Kind   string `json:"kind"` // "READ" | "PRACTICE" | "RECALL" | "QUIZ"
	Prompt string `json:"prompt,omitempty"`
}

// Session is one unit of a plan; its Blueprint is the ordered step list a
// SessionRun executes against.
type Session struct {
	Id        uuid.UUID
	PlanId    uuid.UUID
	Title     string
	Position  int
	Blueprint []BlueprintStep
	CreatedAt time.Time
	UpdatedAt *time.Time
}
