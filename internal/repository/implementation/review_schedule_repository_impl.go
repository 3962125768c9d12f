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

type ReviewScheduleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReviewScheduleMapper
}

func NewReviewScheduleRepository(db *gorm.DB) contract.ReviewScheduleRepository {
	return &ReviewScheduleRepositoryImpl{
		db:     db,
		mapper: mapper.NewReviewScheduleMapper(),
	}
}

func (r *ReviewScheduleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReviewScheduleRepositoryImpl) Create(ctx context.Context, schedule *entity.ReviewSchedule) error {
	m := r.mapper.ToModel(schedule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*schedule = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReviewScheduleRepositoryImpl) Update(ctx context.Context, schedule *entity.ReviewSchedule) error {
	m := r.mapper.ToModel(schedule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*schedule = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReviewScheduleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReviewSchedule, error) {
	var m model.ReviewSchedule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ReviewScheduleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReviewSchedule, error) {
	var models []*model.ReviewSchedule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ReviewScheduleRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ReviewSchedule{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
