package unitofwork

import (
	"context"

	"ai-studyflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	JobRepository() contract.JobRepository
	MaterialRepository() contract.MaterialRepository
	MaterialUploadRepository() contract.MaterialUploadRepository
	MaterialChunkRepository() contract.MaterialChunkRepository
	PlanRepository() contract.PlanRepository
	SessionRepository() contract.SessionRepository
	SessionRunRepository() contract.SessionRunRepository
	ConceptRepository() contract.ConceptRepository
	ReviewScheduleRepository() contract.ReviewScheduleRepository
}
