package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/mapper"
	"ai-studyflow-be/internal/model"
	"ai-studyflow-be/internal/repository/contract"
	"ai-studyflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JobMapper
}

func NewJobRepository(db *gorm.DB) contract.JobRepository {
	return &JobRepositoryImpl{
		db:     db,
		mapper: mapper.NewJobMapper(),
	}
}

func (r *JobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *entity.Job) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *JobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Job, error) {
	var m model.Job
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *JobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Job, error) {
	var models []*model.Job
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *JobRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Job{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *JobRepositoryImpl) MarkRunning(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, string(entity.JobStatusQueued)).
		Update("status", string(entity.JobStatusRunning))
	return res.RowsAffected > 0, res.Error
}

func (r *JobRepositoryImpl) UpdateProgress(ctx context.Context, id uuid.UUID, fraction float64, step string) error {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	// GREATEST keeps progress monotonically non-decreasing even if step
	// reports arrive out of order.
	return r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, string(entity.JobStatusRunning)).
		Updates(map[string]interface{}{
			"progress":     gorm.Expr("GREATEST(COALESCE(progress, 0), ?)", fraction),
			"current_step": step,
		}).Error
}

func (r *JobRepositoryImpl) MarkSucceeded(ctx context.Context, id uuid.UUID, result map[string]interface{}) (bool, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, string(entity.JobStatusRunning)).
		Updates(map[string]interface{}{
			"status":       string(entity.JobStatusSucceeded),
			"progress":     1.0,
			"current_step": nil,
			"result":       raw,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *JobRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, code, message string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status IN ?", id, []string{
			string(entity.JobStatusQueued),
			string(entity.JobStatusRunning),
		}).
		Updates(map[string]interface{}{
			"status":        string(entity.JobStatusFailed),
			"current_step":  nil,
			"error_code":    code,
			"error_message": message,
		})
	return res.RowsAffected > 0, res.Error
}
