package entity

import (
	"time"

	"github.com/google/uuid"
)

type MaterialStatus string

const (
	MaterialStatusProcessing MaterialStatus = "PROCESSING"
	MaterialStatusReady      MaterialStatus = "READY"
	MaterialStatusFailed     MaterialStatus = "FAILED"
)

// Material is an uploaded learning artifact after parsing and analysis.
type Material struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	ContentHash string
	StorageKey  string
	MimeType    string
	Status      MaterialStatus
	SummaryMd   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "PENDING"
	UploadStatusCompleted UploadStatus = "COMPLETED"
	UploadStatusFailed    UploadStatus = "FAILED"
)

// MaterialUpload is the handshake record between the init call, the client's
// direct PUT to object storage, and the completion job.
type MaterialUpload struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	Status     UploadStatus
	MaterialId *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// MaterialChunk is one embedded slice of a material's extracted text.
type MaterialChunk struct {
	Id         uuid.UUID
	MaterialId uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
