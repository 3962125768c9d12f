package implementation

import (
	"context"
	"errors"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/mapper"
	"ai-studyflow-be/internal/model"
	"ai-studyflow-be/internal/repository/contract"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ConceptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConceptMapper
}

func NewConceptRepository(db *gorm.DB) contract.ConceptRepository {
	return &ConceptRepositoryImpl{
		db:     db,
		mapper: mapper.NewConceptMapper(),
	}
}

func (r *ConceptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConceptRepositoryImpl) Create(ctx context.Context, concept *entity.Concept) error {
	m := r.mapper.ToModel(concept)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*concept = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConceptRepositoryImpl) Update(ctx context.Context, concept *entity.Concept) error {
	m := r.mapper.ToModel(concept)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*concept = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConceptRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Concept, error) {
	var m model.Concept
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConceptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Concept, error) {
	var models []*model.Concept
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ConceptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Concept{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ConceptRepositoryImpl) FindByName(ctx context.Context, userId uuid.UUID, name string) (*entity.Concept, error) {
	var m model.Concept
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Where("LOWER(name) = LOWER(?)", name).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConceptRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.Concept, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.Concept

	// pgvector cosine distance ordering, tenant-scoped.
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
