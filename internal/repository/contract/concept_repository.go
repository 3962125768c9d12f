package contract

import (
	"context"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConceptRepository interface {
	Create(ctx context.Context, concept *entity.Concept) error
	Update(ctx context.Context, concept *entity.Concept) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Concept, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Concept, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindByName matches case-insensitively within one tenant, used by the
	// material processor to upsert instead of duplicating concepts.
	FindByName(ctx context.Context, userId uuid.UUID, name string) (*entity.Concept, error)

	// SearchSimilar orders concepts by cosine distance to the query embedding.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.Concept, error)
}

type ReviewScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.ReviewSchedule) error
	Update(ctx context.Context, schedule *entity.ReviewSchedule) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReviewSchedule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReviewSchedule, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
