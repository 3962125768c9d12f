package contract

import (
	"context"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	Update(ctx context.Context, material *entity.Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Material, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Material, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type MaterialUploadRepository interface {
	Create(ctx context.Context, upload *entity.MaterialUpload) error
	Update(ctx context.Context, upload *entity.MaterialUpload) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MaterialUpload, error)
}

type MaterialChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.MaterialChunk) error
	DeleteByMaterialId(ctx context.Context, materialId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MaterialChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar orders chunks by cosine distance to the query embedding,
	// scoped to the owner's non-deleted materials.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.MaterialChunk, error)
}
