package service

import (
	"context"
	"time"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/pkg/queue"

	"github.com/google/uuid"
)

type IPlanService interface {
	// Generate creates a pending plan and queues its generation job.
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowPlanResponse, error)
	List(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ListPlansResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	jobQueue   *queue.Publisher
	log        logger.ILogger
}

func NewPlanService(
	uowFactory unitofwork.RepositoryFactory,
	jobQueue *queue.Publisher,
	log logger.ILogger,
) IPlanService {
	return &planService{
		uowFactory: uowFactory,
		jobQueue:   jobQueue,
		log:        log,
	}
}

func (s *planService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	materials, err := uow.MaterialRepository().FindAll(ctx,
		specification.ByIDs{IDs: req.MaterialIds},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if len(materials) != len(req.MaterialIds) {
		return nil, serverutils.NewNotFound("MATERIAL_NOT_FOUND", "one or more materials not found")
	}
	for _, m := range materials {
		if m.Status != entity.MaterialStatusReady {
			return nil, serverutils.NewConflict("MATERIAL_NOT_READY", "all materials must finish processing before plan generation")
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	plan := entity.Plan{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Goal,
		Goal:      req.Goal,
		Status:    entity.PlanStatusPending,
		CreatedAt: now,
	}
	if err := uow.PlanRepository().Create(ctx, &plan); err != nil {
		return nil, err
	}
	if err := uow.PlanRepository().LinkMaterials(ctx, plan.Id, req.MaterialIds); err != nil {
		return nil, err
	}

	job := entity.Job{
		Id:     uuid.New(),
		UserId: userId,
		Type:   entity.JobTypePlanGeneration,
		Status: entity.JobStatusQueued,
		Payload: map[string]interface{}{
			"plan_id": plan.Id.String(),
		},
		CreatedAt: now,
	}
	if err := uow.JobRepository().Create(ctx, &job); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.jobQueue.Enqueue(ctx, queue.SubjectPlan, queue.JobMessage{
		JobId:    job.Id,
		EntityId: plan.Id,
	}); err != nil {
		s.log.Error("PlanService", "failed to enqueue plan job", map[string]interface{}{
			"job_id": job.Id.String(),
			"error":  err.Error(),
		})
	}

	return &dto.GeneratePlanResponse{
		PlanId: plan.Id,
		JobId:  job.Id,
	}, nil
}

func (s *planService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowPlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, serverutils.NewNotFound("PLAN_NOT_FOUND", "plan not found")
	}

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByPlanId{PlanId: plan.Id},
		specification.OrderBy{Field: "position"},
	)
	if err != nil {
		return nil, err
	}

	return toPlanResponse(plan, sessions), nil
}

func (s *planService) List(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ListPlansResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	plans, err := uow.PlanRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ShowPlanResponse, len(plans))
	for i, p := range plans {
		items[i] = *toPlanResponse(p, nil)
	}

	return &dto.ListPlansResponse{
		Plans: items,
		Total: int64(len(items)),
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *planService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if plan == nil {
		return serverutils.NewNotFound("PLAN_NOT_FOUND", "plan not found")
	}
	if plan.Status == entity.PlanStatusGenerating {
		return serverutils.NewConflict("PLAN_GENERATING", "cannot delete a plan while it is being generated")
	}

	return uow.PlanRepository().Delete(ctx, id)
}

func toPlanResponse(p *entity.Plan, sessions []*entity.Session) *dto.ShowPlanResponse {
	resp := &dto.ShowPlanResponse{
		Id:          p.Id,
		Title:       p.Title,
		Goal:        p.Goal,
		Status:      string(p.Status),
		MaterialIds: p.MaterialIds,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.SummaryMd != "" {
		summary := p.SummaryMd
		resp.SummaryMd = &summary
	}
	for _, session := range sessions {
		steps := make([]dto.BlueprintStepResponse, len(session.Blueprint))
		for i, step := range session.Blueprint {
			steps[i] = dto.BlueprintStepResponse{
				Title:  step.Title,
				Kind:   step.Kind,
				Prompt: step.Prompt,
			}
		}
		resp.Sessions = append(resp.Sessions, dto.ShowSessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			Position:  session.Position,
			Blueprint: steps,
		})
	}
	return resp
}
