package service

import (
	"context"
	"time"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReviewService interface {
	// ListDue returns concepts whose next review is due now or earlier.
	ListDue(ctx context.Context, userId uuid.UUID, limit int) (*dto.ListDueReviewsResponse, error)

	// Grade records a recall grade and reschedules the concept.
	Grade(ctx context.Context, userId uuid.UUID, req *dto.GradeReviewRequest) (*dto.GradeReviewResponse, error)
}

type reviewService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReviewService(uowFactory unitofwork.RepositoryFactory) IReviewService {
	return &reviewService{
		uowFactory: uowFactory,
	}
}

func (s *reviewService) ListDue(ctx context.Context, userId uuid.UUID, limit int) (*dto.ListDueReviewsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit < 1 || limit > 100 {
		limit = 20
	}

	now := time.Now()
	total, err := uow.ReviewScheduleRepository().Count(ctx,
		specification.ByUserId{UserId: userId},
		specification.DueBefore{At: now},
	)
	if err != nil {
		return nil, err
	}

	schedules, err := uow.ReviewScheduleRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.DueBefore{At: now},
		specification.OrderBy{Field: "due_at"},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	conceptIds := make([]uuid.UUID, len(schedules))
	for i, schedule := range schedules {
		conceptIds[i] = schedule.ConceptId
	}

	conceptsById := map[uuid.UUID]*entity.Concept{}
	if len(conceptIds) > 0 {
		concepts, findErr := uow.ConceptRepository().FindAll(ctx, specification.ByIDs{IDs: conceptIds})
		if findErr != nil {
			return nil, findErr
		}
		for _, c := range concepts {
			conceptsById[c.Id] = c
		}
	}

	reviews := make([]dto.DueReviewResponse, 0, len(schedules))
	for _, schedule := range schedules {
		concept, ok := conceptsById[schedule.ConceptId]
		if !ok {
			continue
		}
		reviews = append(reviews, dto.DueReviewResponse{
			ConceptId:      schedule.ConceptId,
			ConceptName:    concept.Name,
			ConceptSummary: concept.Definition,
			DueAt:          schedule.DueAt,
			IntervalDays:   int(schedule.IntervalDays),
			Repetition:     schedule.Repetition,
		})
	}

	return &dto.ListDueReviewsResponse{
		Reviews: reviews,
		Total:   total,
	}, nil
}

func (s *reviewService) Grade(ctx context.Context, userId uuid.UUID, req *dto.GradeReviewRequest) (*dto.GradeReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	schedule, err := uow.ReviewScheduleRepository().FindOne(ctx,
		specification.ByConceptId{ConceptId: req.ConceptId},
		specification.ByUserId{UserId: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, serverutils.NewNotFound("REVIEW_NOT_FOUND", "no review schedule for this concept")
	}

	schedule.ApplyGrade(req.Grade, time.Now())

	if err := uow.ReviewScheduleRepository().Update(ctx, schedule); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.GradeReviewResponse{
		ConceptId:    schedule.ConceptId,
		NextDueAt:    schedule.DueAt,
		IntervalDays: int(schedule.IntervalDays),
		Ease:         schedule.Ease,
		Repetition:   schedule.Repetition,
	}, nil
}
