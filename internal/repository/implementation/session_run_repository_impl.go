package implementation

import (
	"context"
	"errors"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/mapper"
	"ai-studyflow-be/internal/model"
	"ai-studyflow-be/internal/repository/contract"
	"ai-studyflow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SessionRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionRunMapper
}

func NewSessionRunRepository(db *gorm.DB) contract.SessionRunRepository {
	return &SessionRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionRunMapper(),
	}
}

func (r *SessionRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRunRepositoryImpl) Create(ctx context.Context, run *entity.SessionRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// gorm.ErrDuplicatedKey bubbles up to the service for recovery.
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRunRepositoryImpl) Update(ctx context.Context, run *entity.SessionRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRunRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionRun, error) {
	var m model.SessionRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRunRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionRun, error) {
	var models []*model.SessionRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SessionRunRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SessionRun{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
