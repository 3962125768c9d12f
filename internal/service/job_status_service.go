package service

import (
	"context"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IJobStatusService interface {
	Show(ctx context.Context, userId uuid.UUID, jobId uuid.UUID) (*dto.ShowJobResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListJobsRequest) (*dto.ListJobsResponse, error)
}

type jobStatusService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewJobStatusService(uowFactory unitofwork.RepositoryFactory) IJobStatusService {
	return &jobStatusService{
		uowFactory: uowFactory,
	}
}

func (s *jobStatusService) Show(ctx context.Context, userId uuid.UUID, jobId uuid.UUID) (*dto.ShowJobResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobRepository().FindOne(ctx,
		specification.ByID{ID: jobId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, serverutils.NewNotFound("JOB_NOT_FOUND", "job not found")
	}

	return toJobResponse(job), nil
}

func (s *jobStatusService) List(ctx context.Context, userId uuid.UUID, req *dto.ListJobsRequest) (*dto.ListJobsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	specs := []specification.Specification{
		specification.ByUserId{UserId: userId},
	}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	if req.Type != "" {
		specs = append(specs, specification.Filter("type", req.Type))
	}

	total, err := uow.JobRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)

	jobs, err := uow.JobRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ShowJobResponse, len(jobs))
	for i, job := range jobs {
		items[i] = *toJobResponse(job)
	}

	return &dto.ListJobsResponse{
		Jobs:  items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func toJobResponse(job *entity.Job) *dto.ShowJobResponse {
	resp := &dto.ShowJobResponse{
		Id:        job.Id,
		Type:      string(job.Type),
		Status:    string(job.Status),
		Progress:  job.Progress,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}

	switch job.Status {
	case entity.JobStatusSucceeded:
		resp.Result = job.Result
	case entity.JobStatusFailed:
		resp.ErrorCode = job.ErrorCode
		resp.ErrorMessage = job.ErrorMessage
	default:
		resp.CurrentStep = job.CurrentStep
	}

	return resp
}
