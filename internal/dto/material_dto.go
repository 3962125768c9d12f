package dto

import (
	"time"

	"github.com/google/uuid"
)

type InitUploadRequest struct {
	FileName  string `json:"file_name" validate:"required,max=255"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
}

type InitUploadResponse struct {
	UploadId  uuid.UUID `json:"upload_id"`
	UploadUrl string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CompleteUploadRequest struct {
	UploadId uuid.UUID
}

type CompleteUploadResponse struct {
	JobId      uuid.UUID `json:"job_id"`
	MaterialId uuid.UUID `json:"material_id"`
}

type ShowMaterialResponse struct {
	Id        uuid.UUID  `json:"id"`
	FileName  string     `json:"file_name"`
	MimeType  string     `json:"mime_type"`
	Status    string     `json:"status"`
	SummaryMd *string    `json:"summary_md,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListMaterialsResponse struct {
	Materials []ShowMaterialResponse `json:"materials"`
	Total     int64                  `json:"total"`
	Page      int                    `json:"page"`
	Limit     int                    `json:"limit"`
}

type SearchMaterialChunksRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type MaterialChunkResult struct {
	MaterialId uuid.UUID `json:"material_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
}
