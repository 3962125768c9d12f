package dto

import (
	"time"

	"github.com/google/uuid"
)

type GeneratePlanRequest struct {
	Goal        string      `json:"goal" validate:"required,max=500"`
	MaterialIds []uuid.UUID `json:"material_ids" validate:"required,min=1,dive,required"`
}

type GeneratePlanResponse struct {
	PlanId uuid.UUID `json:"plan_id"`
	JobId  uuid.UUID `json:"job_id"`
}

type BlueprintStepResponse struct {
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	Prompt string `json:"prompt"`
}

type ShowSessionResponse struct {
	Id        uuid.UUID               `json:"id"`
	Title     string                  `json:"title"`
	Position  int                     `json:"position"`
	Blueprint []BlueprintStepResponse `json:"blueprint"`
}

type ShowPlanResponse struct {
	Id          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Goal        string                `json:"goal"`
	Status      string                `json:"status"`
	SummaryMd   *string               `json:"summary_md,omitempty"`
	MaterialIds []uuid.UUID           `json:"material_ids"`
	Sessions    []ShowSessionResponse `json:"sessions"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   *time.Time            `json:"updated_at"`
}

type ListPlansResponse struct {
	Plans []ShowPlanResponse `json:"plans"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
