package implementation

import (
	"context"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/mapper"
	"ai-studyflow-be/internal/model"
	"ai-studyflow-be/internal/repository/contract"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MaterialChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MaterialChunkMapper
}

func NewMaterialChunkRepository(db *gorm.DB) contract.MaterialChunkRepository {
	return &MaterialChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewMaterialChunkMapper(),
	}
}

func (r *MaterialChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MaterialChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.MaterialChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *MaterialChunkRepositoryImpl) DeleteByMaterialId(ctx context.Context, materialId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("material_id = ?", materialId).Delete(&model.MaterialChunk{}).Error
}

func (r *MaterialChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MaterialChunk, error) {
	var models []*model.MaterialChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MaterialChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MaterialChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.MaterialChunk, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []*model.MaterialChunk
	err := r.db.WithContext(ctx).
		Joins("JOIN materials ON materials.id = material_chunks.material_id").
		Where("materials.user_id = ? AND materials.is_deleted = ?", userId, false).
		Order(gorm.Expr("material_chunks.embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.MaterialChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MaterialChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MaterialChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
