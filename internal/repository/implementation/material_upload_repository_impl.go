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

type MaterialUploadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MaterialUploadMapper
}

func NewMaterialUploadRepository(db *gorm.DB) contract.MaterialUploadRepository {
	return &MaterialUploadRepositoryImpl{
		db:     db,
		mapper: mapper.NewMaterialUploadMapper(),
	}
}

func (r *MaterialUploadRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MaterialUploadRepositoryImpl) Create(ctx context.Context, upload *entity.MaterialUpload) error {
	m := r.mapper.ToModel(upload)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*upload = *r.mapper.ToEntity(m)
	return nil
}

func (r *MaterialUploadRepositoryImpl) Update(ctx context.Context, upload *entity.MaterialUpload) error {
	m := r.mapper.ToModel(upload)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*upload = *r.mapper.ToEntity(m)
	return nil
}

func (r *MaterialUploadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MaterialUpload, error) {
	var m model.MaterialUpload
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
