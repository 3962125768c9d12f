package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	startLockTTL      = 10 * time.Second
	blueprintCacheTTL = 10 * time.Minute
)

type ISessionRunService interface {
	// Start begins a run for a session, or resumes the existing RUNNING run.
	// Starting is idempotent: concurrent starts converge on one run.
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartRunRequest) (*dto.StartRunResponse, error)

	Show(ctx context.Context, userId uuid.UUID, runId uuid.UUID) (*dto.ShowRunResponse, error)
	SaveProgress(ctx context.Context, userId uuid.UUID, req *dto.SaveRunProgressRequest) (*dto.ShowRunResponse, error)
	Complete(ctx context.Context, userId uuid.UUID, req *dto.CompleteRunRequest) (*dto.ShowRunResponse, error)
	Abandon(ctx context.Context, userId uuid.UUID, req *dto.AbandonRunRequest) (*dto.ShowRunResponse, error)
}

type sessionRunService struct {
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client
	blueprints *gocache.Cache
	log        logger.ILogger
}

func NewSessionRunService(
	uowFactory unitofwork.RepositoryFactory,
	rdb *redis.Client,
	log logger.ILogger,
) ISessionRunService {
	return &sessionRunService{
		uowFactory: uowFactory,
		rdb:        rdb,
		blueprints: gocache.New(blueprintCacheTTL, 2*blueprintCacheTTL),
		log:        log,
	}
}

func (s *sessionRunService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartRunRequest) (*dto.StartRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFound("SESSION_NOT_FOUND", "session not found")
	}

	plan, err := uow.PlanRepository().FindOne(ctx,
		specification.ByID{ID: session.PlanId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, serverutils.NewNotFound("SESSION_NOT_FOUND", "session not found")
	}
	if plan.Status != entity.PlanStatusReady {
		return nil, serverutils.NewConflict("PLAN_NOT_READY", "plan is not ready to study")
	}

	// Best-effort short lock to serialize concurrent starts for one session.
	// The partial unique index is the real guarantee; the lock just avoids
	// a needless insert/conflict round trip.
	if s.rdb != nil {
		lockKey := fmt.Sprintf("run:start:%s", req.SessionId)
		ok, lockErr := s.rdb.SetNX(ctx, lockKey, userId.String(), startLockTTL).Result()
		if lockErr == nil && ok {
			defer s.rdb.Del(context.Background(), lockKey)
		}
	}

	existing, err := uow.SessionRunRepository().FindOne(ctx,
		specification.BySessionId{SessionId: req.SessionId},
		specification.ByStatus{Status: string(entity.SessionRunStatusRunning)},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.StartRunResponse{Run: *toRunResponse(existing), IsRecovery: true}, nil
	}

	now := time.Now()
	run := entity.SessionRun{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		PlanId:    session.PlanId,
		UserId:    userId,
		Status:    entity.SessionRunStatusRunning,
		StepIndex: 0,
		Inputs:    req.Inputs,
		StartedAt: now,
	}
	if run.Inputs == nil {
		run.Inputs = map[string]interface{}{}
	}

	if err := uow.SessionRunRepository().Create(ctx, &run); err != nil {
		// Another request won the race; the unique index rejected ours.
		// Recover their run instead of failing.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, findErr := uow.SessionRunRepository().FindOne(ctx,
				specification.BySessionId{SessionId: req.SessionId},
				specification.ByStatus{Status: string(entity.SessionRunStatusRunning)},
			)
			if findErr != nil {
				return nil, findErr
			}
			if winner != nil {
				return &dto.StartRunResponse{Run: *toRunResponse(winner), IsRecovery: true}, nil
			}
		}
		return nil, err
	}

	return &dto.StartRunResponse{Run: *toRunResponse(&run), IsRecovery: false}, nil
}

func (s *sessionRunService) Show(ctx context.Context, userId uuid.UUID, runId uuid.UUID) (*dto.ShowRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.SessionRunRepository().FindOne(ctx,
		specification.ByID{ID: runId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, serverutils.NewNotFound("RUN_NOT_FOUND", "session run not found")
	}

	return toRunResponse(run), nil
}

func (s *sessionRunService) SaveProgress(ctx context.Context, userId uuid.UUID, req *dto.SaveRunProgressRequest) (*dto.ShowRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	run, err := uow.SessionRunRepository().FindOne(ctx,
		specification.ByID{ID: req.RunId},
		specification.ByUserId{UserId: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, serverutils.NewNotFound("RUN_NOT_FOUND", "session run not found")
	}

	stepCount, err := s.stepCount(ctx, uow, run.SessionId)
	if err != nil {
		return nil, err
	}

	if err := run.ApplyProgress(req.StepIndex, req.Inputs, stepCount, time.Now()); err != nil {
		if errors.Is(err, entity.ErrRunAlreadyFinished) {
			return nil, serverutils.NewConflict("RUN_ALREADY_FINISHED", "session run already finished")
		}
		return nil, err
	}

	if err := uow.SessionRunRepository().Update(ctx, run); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return toRunResponse(run), nil
}

func (s *sessionRunService) Complete(ctx context.Context, userId uuid.UUID, req *dto.CompleteRunRequest) (*dto.ShowRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	run, err := uow.SessionRunRepository().FindOne(ctx,
		specification.ByID{ID: req.RunId},
		specification.ByUserId{UserId: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, serverutils.NewNotFound("RUN_NOT_FOUND", "session run not found")
	}
	if run.IsTerminal() {
		return nil, serverutils.NewConflict("RUN_ALREADY_FINISHED", "session run already finished")
	}

	now := time.Now()
	summary := entity.RunSummary{}

	for _, result := range req.Concepts {
		concept, upsertErr := s.upsertConcept(ctx, uow, userId, result)
		if upsertErr != nil {
			return nil, upsertErr
		}
		if concept.created {
			summary.ConceptsCreatedCount++
		} else {
			summary.ConceptsUpdatedCount++
		}

		scheduled, schedErr := s.scheduleReview(ctx, uow, userId, concept.id, result.Grade, now)
		if schedErr != nil {
			return nil, schedErr
		}
		if scheduled {
			summary.ReviewsScheduledCount++
		}
	}

	summary.SummaryMd = fmt.Sprintf(
		"## Session complete\n\n- Concepts learned: %d\n- Concepts reinforced: %d\n- Reviews scheduled: %d\n",
		summary.ConceptsCreatedCount, summary.ConceptsUpdatedCount, summary.ReviewsScheduledCount,
	)

	if err := run.Complete(summary, now); err != nil {
		return nil, serverutils.NewConflict("RUN_ALREADY_FINISHED", "session run already finished")
	}
	if err := uow.SessionRunRepository().Update(ctx, run); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return toRunResponse(run), nil
}

func (s *sessionRunService) Abandon(ctx context.Context, userId uuid.UUID, req *dto.AbandonRunRequest) (*dto.ShowRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	run, err := uow.SessionRunRepository().FindOne(ctx,
		specification.ByID{ID: req.RunId},
		specification.ByUserId{UserId: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, serverutils.NewNotFound("RUN_NOT_FOUND", "session run not found")
	}

	if err := run.Abandon(req.Reason, time.Now()); err != nil {
		return nil, serverutils.NewConflict("RUN_ALREADY_FINISHED", "session run already finished")
	}
	if err := uow.SessionRunRepository().Update(ctx, run); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return toRunResponse(run), nil
}

// stepCount resolves the blueprint length for a session, cached in-process
// since blueprints are immutable once generated.
func (s *sessionRunService) stepCount(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (int, error) {
	cacheKey := fmt.Sprintf("session:%s:steps", sessionId)
	if cached, found := s.blueprints.Get(cacheKey); found {
		return cached.(int), nil
	}

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, serverutils.NewNotFound("SESSION_NOT_FOUND", "session not found")
	}

	count := len(session.Blueprint)
	s.blueprints.Set(cacheKey, count, gocache.DefaultExpiration)
	return count, nil
}

type upsertedConcept struct {
	id      uuid.UUID
	created bool
}

func (s *sessionRunService) upsertConcept(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, result dto.RunConceptResult) (*upsertedConcept, error) {
	existing, err := uow.ConceptRepository().FindByName(ctx, userId, result.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		if result.Summary != "" {
			existing.Definition = result.Summary
			if err := uow.ConceptRepository().Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return &upsertedConcept{id: existing.Id, created: false}, nil
	}

	concept := entity.Concept{
		Id:         uuid.New(),
		UserId:     userId,
		Name:       result.Name,
		Definition: result.Summary,
		CreatedAt:  now,
	}
	if err := uow.ConceptRepository().Create(ctx, &concept); err != nil {
		return nil, err
	}
	return &upsertedConcept{id: concept.Id, created: true}, nil
}

func (s *sessionRunService) scheduleReview(ctx context.Context, uow unitofwork.UnitOfWork, userId, conceptId uuid.UUID, grade int, now time.Time) (bool, error) {
	schedule, err := uow.ReviewScheduleRepository().FindOne(ctx,
		specification.ByConceptId{ConceptId: conceptId},
	)
	if err != nil {
		return false, err
	}

	if schedule == nil {
		schedule = entity.NewReviewSchedule(userId, conceptId, now)
		schedule.ApplyGrade(grade, now)
		if err := uow.ReviewScheduleRepository().Create(ctx, schedule); err != nil {
			return false, err
		}
		return true, nil
	}

	schedule.ApplyGrade(grade, now)
	if err := uow.ReviewScheduleRepository().Update(ctx, schedule); err != nil {
		return false, err
	}
	return true, nil
}

func toRunResponse(run *entity.SessionRun) *dto.ShowRunResponse {
	resp := &dto.ShowRunResponse{
		Id:          run.Id,
		SessionId:   run.SessionId,
		Status:      string(run.Status),
		StepIndex:   run.StepIndex,
		Inputs:      run.Inputs,
		ExitReason:  run.ExitReason,
		SavedAt:     run.SavedAt,
		StartedAt:   run.StartedAt,
		CompletedAt: run.EndedAt,
	}
	if run.Summary != nil {
		md := run.Summary.SummaryMd
		resp.Summary = &dto.RunSummaryResponse{
			ConceptsCreatedCount:  run.Summary.ConceptsCreatedCount,
			ConceptsUpdatedCount:  run.Summary.ConceptsUpdatedCount,
			ReviewsScheduledCount: run.Summary.ReviewsScheduledCount,
		}
		if md != "" {
			resp.Summary.SummaryMd = &md
		}
	}
	return resp
}
