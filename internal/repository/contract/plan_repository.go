package contract

import (
	"context"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	Update(ctx context.Context, plan *entity.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error)

	LinkMaterials(ctx context.Context, planId uuid.UUID, materialIds []uuid.UUID) error
	MaterialIds(ctx context.Context, planId uuid.UUID) ([]uuid.UUID, error)
}

type SessionRepository interface {
	CreateBulk(ctx context.Context, sessions []*entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
}
