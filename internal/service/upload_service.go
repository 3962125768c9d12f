package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/pkg/progress"
	"ai-studyflow-be/pkg/queue"
	"ai-studyflow-be/pkg/storage"

	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

const maxUploadBytes = 50 << 20 // 50 MiB

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
}

type IUploadService interface {
	// Init reserves an upload slot and returns a presigned PUT URL the
	// client uploads the file to directly.
	Init(ctx context.Context, userId uuid.UUID, req *dto.InitUploadRequest) (*dto.InitUploadResponse, error)

	// Complete verifies the object landed in storage, creates the material
	// and its processing job, and enqueues the job.
	Complete(ctx context.Context, userId uuid.UUID, uploadId uuid.UUID) (*dto.CompleteUploadResponse, error)

	// Stream handles a direct (proxied) upload, emitting progress events
	// along the way and finishing with the same semantics as Complete.
	Stream(ctx context.Context, userId uuid.UUID, fileName, mimeType string, data []byte) (*dto.CompleteUploadResponse, uuid.UUID, error)
}

type uploadService struct {
	uowFactory  unitofwork.RepositoryFactory
	store       storage.ObjectStorage
	progressBus *progress.Bus
	jobQueue    *queue.Publisher
	log         logger.ILogger
}

func NewUploadService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStorage,
	progressBus *progress.Bus,
	jobQueue *queue.Publisher,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		uowFactory:  uowFactory,
		store:       store,
		progressBus: progressBus,
		jobQueue:    jobQueue,
		log:         log,
	}
}

func storageKeyFor(userId, uploadId uuid.UUID, fileName string) string {
	return fmt.Sprintf("materials/%s/%s/%s", userId, uploadId, path.Base(fileName))
}

func (s *uploadService) Init(ctx context.Context, userId uuid.UUID, req *dto.InitUploadRequest) (*dto.InitUploadResponse, error) {
	if !allowedMimeTypes[req.MimeType] {
		return nil, serverutils.NewBadRequest("UNSUPPORTED_MIME_TYPE", fmt.Sprintf("mime type %s is not supported", req.MimeType))
	}
	if req.SizeBytes > maxUploadBytes {
		return nil, serverutils.NewBadRequest("FILE_TOO_LARGE", "file exceeds the 50 MiB upload limit")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	upload := entity.MaterialUpload{
		Id:        uuid.New(),
		UserId:    userId,
		FileName:  req.FileName,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
		Status:    entity.UploadStatusPending,
		CreatedAt: time.Now(),
	}
	upload.StorageKey = storageKeyFor(userId, upload.Id, req.FileName)

	uploadUrl, err := s.store.PresignPut(ctx, upload.StorageKey, req.MimeType, presignTTL)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, serverutils.NewInternal("STORAGE_UNAVAILABLE", "object storage is not configured")
		}
		return nil, err
	}

	if err := uow.MaterialUploadRepository().Create(ctx, &upload); err != nil {
		return nil, err
	}

	return &dto.InitUploadResponse{
		UploadId:  upload.Id,
		UploadUrl: uploadUrl,
		ExpiresAt: time.Now().Add(presignTTL),
	}, nil
}

func (s *uploadService) Complete(ctx context.Context, userId uuid.UUID, uploadId uuid.UUID) (*dto.CompleteUploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	upload, err := uow.MaterialUploadRepository().FindOne(ctx,
		specification.ByID{ID: uploadId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, serverutils.NewNotFound("UPLOAD_NOT_FOUND", "upload not found")
	}
	if upload.Status != entity.UploadStatusPending {
		return nil, serverutils.NewConflict("UPLOAD_ALREADY_COMPLETED", "upload was already completed")
	}

	// The client claims it PUT the object; verify before queueing work.
	if _, err := s.store.Head(ctx, upload.StorageKey); err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, serverutils.NewInternal("STORAGE_UNAVAILABLE", "object storage is not configured")
		}
		return nil, serverutils.NewBadRequest("OBJECT_MISSING", "uploaded file was not found in storage")
	}

	return s.finishUpload(ctx, upload)
}

func (s *uploadService) Stream(ctx context.Context, userId uuid.UUID, fileName, mimeType string, data []byte) (*dto.CompleteUploadResponse, uuid.UUID, error) {
	if !allowedMimeTypes[mimeType] {
		return nil, uuid.Nil, serverutils.NewBadRequest("UNSUPPORTED_MIME_TYPE", fmt.Sprintf("mime type %s is not supported", mimeType))
	}
	if int64(len(data)) > maxUploadBytes {
		return nil, uuid.Nil, serverutils.NewBadRequest("FILE_TOO_LARGE", "file exceeds the 50 MiB upload limit")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	upload := entity.MaterialUpload{
		Id:        uuid.New(),
		UserId:    userId,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Status:    entity.UploadStatusPending,
		CreatedAt: time.Now(),
	}
	upload.StorageKey = storageKeyFor(userId, upload.Id, fileName)

	s.publishProgress(upload.Id, progress.StepPreparing, 5, "preparing upload", "")

	if err := uow.MaterialUploadRepository().Create(ctx, &upload); err != nil {
		return nil, uuid.Nil, err
	}

	s.publishProgress(upload.Id, progress.StepPreparing, 15, "storing uploaded bytes", "")

	if err := s.store.Put(ctx, upload.StorageKey, bytes.NewReader(data), mimeType); err != nil {
		s.failUpload(ctx, &upload)
		s.publishProgress(upload.Id, progress.StepFailed, 100, "storage upload failed", "")
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, upload.Id, serverutils.NewInternal("STORAGE_UNAVAILABLE", "object storage is not configured")
		}
		return nil, upload.Id, err
	}

	resp, err := s.finishUpload(ctx, &upload)
	if err != nil {
		s.publishProgress(upload.Id, progress.StepFailed, 100, "failed to queue processing", "")
		return nil, upload.Id, err
	}

	s.publishProgress(upload.Id, progress.StepPreparing, 25, "queued for processing", resp.JobId.String())
	return resp, upload.Id, nil
}

// finishUpload creates the material shell and processing job atomically, then
// enqueues the job. Shared by Complete and Stream.
func (s *uploadService) finishUpload(ctx context.Context, upload *entity.MaterialUpload) (*dto.CompleteUploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	material := entity.Material{
		Id:         uuid.New(),
		UserId:     upload.UserId,
		Title:      upload.FileName,
		StorageKey: upload.StorageKey,
		MimeType:   upload.MimeType,
		Status:     entity.MaterialStatusProcessing,
		CreatedAt:  now,
	}
	if err := uow.MaterialRepository().Create(ctx, &material); err != nil {
		return nil, err
	}

	job := entity.Job{
		Id:     uuid.New(),
		UserId: upload.UserId,
		Type:   entity.JobTypeMaterialProcessing,
		Status: entity.JobStatusQueued,
		Payload: map[string]interface{}{
			"upload_id":   upload.Id.String(),
			"material_id": material.Id.String(),
		},
		CreatedAt: now,
	}
	if err := uow.JobRepository().Create(ctx, &job); err != nil {
		return nil, err
	}

	upload.Status = entity.UploadStatusCompleted
	upload.MaterialId = &material.Id
	if err := uow.MaterialUploadRepository().Update(ctx, upload); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Enqueue after commit so the worker always finds the rows.
	if err := s.jobQueue.Enqueue(ctx, queue.SubjectMaterial, queue.JobMessage{
		JobId:    job.Id,
		EntityId: upload.Id,
	}); err != nil {
		// The job row stays QUEUED; a requeue sweep or manual retry picks
		// it up. The client still gets a pollable job id.
		s.log.Error("UploadService", "failed to enqueue material job", map[string]interface{}{
			"job_id": job.Id.String(),
			"error":  err.Error(),
		})
	}

	return &dto.CompleteUploadResponse{
		JobId:      job.Id,
		MaterialId: material.Id,
	}, nil
}

func (s *uploadService) failUpload(ctx context.Context, upload *entity.MaterialUpload) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	upload.Status = entity.UploadStatusFailed
	if err := uow.MaterialUploadRepository().Update(ctx, upload); err != nil {
		s.log.Error("UploadService", "failed to mark upload failed", map[string]interface{}{
			"upload_id": upload.Id.String(),
			"error":     err.Error(),
		})
	}
}

func (s *uploadService) publishProgress(uploadId uuid.UUID, step string, pct int, message, jobId string) {
	err := s.progressBus.Publish(uploadId, progress.UploadProgressEvent{
		Step:     step,
		Progress: pct,
		Message:  message,
		JobId:    jobId,
	})
	if err != nil {
		s.log.Warn("UploadService", "failed to publish progress event", map[string]interface{}{
			"upload_id": uploadId.String(),
			"error":     err.Error(),
		})
	}
}
