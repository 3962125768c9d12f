package contract

import (
	"context"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/repository/specification"
)

// SessionRunRepository persists session runs. Create surfaces
// gorm.ErrDuplicatedKey when another RUNNING run already exists for the
// session (partial unique index), which start-or-resume treats as recovery.
type SessionRunRepository interface {
	Create(ctx context.Context, run *entity.SessionRun) error
	Update(ctx context.Context, run *entity.SessionRun) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionRun, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionRun, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
