package dto

import (
	"time"

	"github.com/google/uuid"
)

type ShowJobResponse struct {
	Id           uuid.UUID              `json:"id"`
	Type         string                 `json:"type"`
	Status       string                 `json:"status"`
	Progress     *float64               `json:"progress,omitempty"`
	CurrentStep  *string                `json:"current_step,omitempty"`
	Result       map[string]interface{} `json:"result,omitempty"`
	ErrorCode    *string                `json:"error_code,omitempty"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at"`
}

type ListJobsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=QUEUED RUNNING SUCCEEDED FAILED"`
	Type   string `query:"type" validate:"omitempty,oneof=MATERIAL_PROCESSING PLAN_GENERATION"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type ListJobsResponse struct {
	Jobs  []ShowJobResponse `json:"jobs"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
