package unitofwork

import (
	"context"
	"fmt"

	"ai-studyflow-be/internal/repository/contract"
	"ai-studyflow-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) JobRepository() contract.JobRepository {
	return implementation.NewJobRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MaterialRepository() contract.MaterialRepository {
	return implementation.NewMaterialRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MaterialUploadRepository() contract.MaterialUploadRepository {
	return implementation.NewMaterialUploadRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MaterialChunkRepository() contract.MaterialChunkRepository {
	return implementation.NewMaterialChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PlanRepository() contract.PlanRepository {
	return implementation.NewPlanRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionRepository() contract.SessionRepository {
	return implementation.NewSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionRunRepository() contract.SessionRunRepository {
	return implementation.NewSessionRunRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ConceptRepository() contract.ConceptRepository {
	return implementation.NewConceptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ReviewScheduleRepository() contract.ReviewScheduleRepository {
	return implementation.NewReviewScheduleRepository(u.getDB())
}
