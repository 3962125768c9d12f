package contract

import (
	"context"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

// JobRepository persists Job rows. All status transitions are conditional
// single-row updates so concurrent writers cannot resurrect a terminal job.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Job, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Job, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkRunning flips QUEUED -> RUNNING. Returns false when the job was
	// not in QUEUED (already claimed or terminal).
	MarkRunning(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdateProgress records progress while RUNNING. Progress never regresses.
	UpdateProgress(ctx context.Context, id uuid.UUID, fraction float64, step string) error

	// MarkSucceeded flips RUNNING -> SUCCEEDED and attaches the result.
	MarkSucceeded(ctx context.Context, id uuid.UUID, result map[string]interface{}) (bool, error)

	// MarkFailed flips QUEUED/RUNNING -> FAILED with a stable error code.
	MarkFailed(ctx context.Context, id uuid.UUID, code, message string) (bool, error)
}
