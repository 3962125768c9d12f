package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/pkg/ai"
	"ai-studyflow-be/pkg/embedding"
	"ai-studyflow-be/pkg/events"
	pkgNats "ai-studyflow-be/pkg/nats"
	"ai-studyflow-be/pkg/progress"
	"ai-studyflow-be/pkg/queue"
	"ai-studyflow-be/pkg/storage"
	"ai-studyflow-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

// MaterialProcessor executes MATERIAL_PROCESSING jobs: download, extract,
// chunk, embed, summarize, finalize. Job-level failures are recorded on the
// job row and acked; only infrastructure errors propagate for redelivery.
type MaterialProcessor struct {
	uowFactory        unitofwork.RepositoryFactory
	store             storage.ObjectStorage
	embeddingProvider embedding.EmbeddingProvider
	llm               ai.LLMProvider
	progressBus       *progress.Bus
	eventPublisher    *pkgNats.Publisher
	log               logger.ILogger
}

func NewMaterialProcessor(
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStorage,
	embeddingProvider embedding.EmbeddingProvider,
	llm ai.LLMProvider,
	progressBus *progress.Bus,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) *MaterialProcessor {
	return &MaterialProcessor{
		uowFactory:        uowFactory,
		store:             store,
		embeddingProvider: embeddingProvider,
		llm:               llm,
		progressBus:       progressBus,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (p *MaterialProcessor) Process(ctx context.Context, msg queue.JobMessage) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobRepository().FindOne(ctx, specification.ByID{ID: msg.JobId})
	if err != nil {
		return err
	}
	if job == nil {
		p.log.Warn("MaterialProcessor", "job row missing, dropping message", map[string]interface{}{"job_id": msg.JobId.String()})
		return nil
	}

	claimed, err := uow.JobRepository().MarkRunning(ctx, job.Id)
	if err != nil {
		return err
	}
	if !claimed {
		// Another worker owns it, or it already finished.
		return nil
	}

	upload, err := uow.MaterialUploadRepository().FindOne(ctx, specification.ByID{ID: msg.EntityId})
	if err != nil {
		return err
	}
	if upload == nil {
		p.fail(ctx, job, nil, uuid.Nil, "UPLOAD_NOT_FOUND", "upload record disappeared before processing")
		return nil
	}

	materialId, err := materialIdFromPayload(job.Payload)
	if err != nil {
		p.fail(ctx, job, upload, uuid.Nil, "INVALID_PAYLOAD", err.Error())
		return nil
	}

	material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: materialId})
	if err != nil {
		return err
	}
	if material == nil {
		p.fail(ctx, job, upload, uuid.Nil, "MATERIAL_NOT_FOUND", "material record disappeared before processing")
		return nil
	}

	p.publishProgress(upload.Id, progress.StepVerifying, 35, "verifying uploaded object", job.Id)
	p.advance(ctx, job.Id, 0.1, "VERIFYING")

	if _, err := p.store.Head(ctx, upload.StorageKey); err != nil {
		code := "OBJECT_MISSING"
		if errors.Is(err, storage.ErrUnavailable) {
			code = "STORAGE_UNAVAILABLE"
		}
		p.fail(ctx, job, upload, material.Id, code, "uploaded object could not be verified")
		return nil
	}

	p.publishProgress(upload.Id, progress.StepLoading, 45, "loading material content", job.Id)
	p.advance(ctx, job.Id, 0.25, "LOADING")
	body, err := p.store.Get(ctx, upload.StorageKey)
	if err != nil {
		code := "DOWNLOAD_FAILED"
		if errors.Is(err, storage.ErrUnavailable) {
			code = "STORAGE_UNAVAILABLE"
		}
		p.fail(ctx, job, upload, material.Id, code, "failed to download uploaded object")
		return nil
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		p.fail(ctx, job, upload, material.Id, "DOWNLOAD_FAILED", "failed to read uploaded object")
		return nil
	}

	text, err := extractText(upload.MimeType, data)
	if err != nil {
		p.fail(ctx, job, upload, material.Id, "EXTRACTION_FAILED", err.Error())
		return nil
	}

	p.publishProgress(upload.Id, progress.StepChecking, 55, "checking for duplicate content", job.Id)
	p.advance(ctx, job.Id, 0.4, "CHECKING")
	contentHash, err := utils.HashContent(bytes.NewReader(data))
	if err != nil {
		return err
	}

	// Dedup: the same bytes processed before short-circuit to the earlier
	// result instead of paying for embedding and summarization again.
	existing, err := uow.MaterialRepository().FindOne(ctx,
		specification.ByContentHash{Hash: contentHash},
		specification.ByUserId{UserId: upload.UserId},
		specification.ByStatus{Status: string(entity.MaterialStatusReady)},
	)
	if err != nil {
		return err
	}
	if existing != nil && existing.Id != material.Id {
		srcChunks, err := uow.MaterialChunkRepository().FindAll(ctx,
			specification.ByMaterialId{MaterialId: existing.Id},
			specification.OrderBy{Field: "chunk_index"},
		)
		if err != nil {
			return err
		}

		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		// Clone the earlier material's chunks so search works on this one
		// too; embeddings come along for free.
		copies := copyChunks(srcChunks, material.Id, time.Now())
		if len(copies) > 0 {
			if err := uow.MaterialChunkRepository().CreateBulk(ctx, copies); err != nil {
				return err
			}
		}

		material.ContentHash = contentHash
		material.Status = entity.MaterialStatusReady
		material.SummaryMd = existing.SummaryMd
		if err := uow.MaterialRepository().Update(ctx, material); err != nil {
			return err
		}
		if err := uow.Commit(); err != nil {
			return err
		}

		p.succeed(ctx, job, upload, map[string]interface{}{
			"material_id":  material.Id.String(),
			"chunk_count":  len(copies),
			"deduplicated": true,
			"duplicate_of": existing.Id.String(),
		})
		return nil
	}

	p.publishProgress(upload.Id, progress.StepStoring, 65, "splitting content into chunks", job.Id)
	p.advance(ctx, job.Id, 0.55, "STORING")
	chunkTexts := utils.SplitText(text, chunkSize, chunkOverlap)

	p.publishProgress(upload.Id, progress.StepAnalyzing, 80, "embedding and summarizing", job.Id)
	p.advance(ctx, job.Id, 0.7, "ANALYZING")
	chunks := make([]*entity.MaterialChunk, 0, len(chunkTexts))
	embeddingsAvailable := true
	for i, content := range chunkTexts {
		chunk := &entity.MaterialChunk{
			Id:         uuid.New(),
			MaterialId: material.Id,
			ChunkIndex: i,
			Content:    content,
			CreatedAt:  time.Now(),
		}
		if embeddingsAvailable {
			res, embedErr := p.embeddingProvider.Generate(content, "RETRIEVAL_DOCUMENT")
			if embedErr != nil {
				if errors.Is(embedErr, embedding.ErrUnavailable) {
					// Store chunks without vectors; search degrades, the
					// material itself stays usable.
					embeddingsAvailable = false
				} else {
					p.fail(ctx, job, upload, material.Id, "EMBEDDING_FAILED", embedErr.Error())
					return nil
				}
			} else {
				chunk.Embedding = res.Embedding.Values
			}
		}
		chunks = append(chunks, chunk)
	}

	summary := p.summarize(ctx, text)

	p.publishProgress(upload.Id, progress.StepFinalizing, 95, "saving material", job.Id)
	p.advance(ctx, job.Id, 0.95, "FINALIZING")
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MaterialChunkRepository().DeleteByMaterialId(ctx, material.Id); err != nil {
		return err
	}
	if err := uow.MaterialChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return err
	}

	material.ContentHash = contentHash
	material.Status = entity.MaterialStatusReady
	material.SummaryMd = summary
	if err := uow.MaterialRepository().Update(ctx, material); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	p.succeed(ctx, job, upload, map[string]interface{}{
		"material_id": material.Id.String(),
		"chunk_count": len(chunks),
		"embedded":    embeddingsAvailable,
	})
	return nil
}

// summarize asks the LLM for a markdown summary; when AI is unavailable it
// falls back to the opening of the text so the material still has something.
func (p *MaterialProcessor) summarize(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(
		"Summarize the following study material as concise markdown with a short overview and 3-7 key points. Respond with markdown only.\n\n%s",
		truncate(text, 12000),
	)
	summary, err := p.llm.Generate(ctx, prompt, ai.WithTemperature(0.3))
	if err != nil {
		p.log.Warn("MaterialProcessor", "summary generation failed, using fallback", map[string]interface{}{"error": err.Error()})
		return truncate(text, 500)
	}
	return summary
}

func (p *MaterialProcessor) succeed(ctx context.Context, job *entity.Job, upload *entity.MaterialUpload, result map[string]interface{}) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.JobRepository().MarkSucceeded(ctx, job.Id, result); err != nil {
		p.log.Error("MaterialProcessor", "failed to mark job succeeded", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
	}

	p.publishProgress(upload.Id, progress.StepCompleted, 100, "material ready", job.Id)

	if p.eventPublisher != nil {
		evt := events.NewJobCompletedEvent(job.UserId, job.Id, string(job.Type), result)
		if err := p.eventPublisher.Publish(ctx, evt); err != nil {
			p.log.Warn("MaterialProcessor", "failed to publish completion event", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
		}
	}
}

func (p *MaterialProcessor) fail(ctx context.Context, job *entity.Job, upload *entity.MaterialUpload, materialId uuid.UUID, code, message string) {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	if _, err := uow.JobRepository().MarkFailed(ctx, job.Id, code, message); err != nil {
		p.log.Error("MaterialProcessor", "failed to mark job failed", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
	}

	if materialId != uuid.Nil {
		material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: materialId})
		if err == nil && material != nil {
			material.Status = entity.MaterialStatusFailed
			if updateErr := uow.MaterialRepository().Update(ctx, material); updateErr != nil {
				p.log.Error("MaterialProcessor", "failed to mark material failed", map[string]interface{}{"material_id": materialId.String(), "error": updateErr.Error()})
			}
		}
	}

	if upload != nil {
		upload.Status = entity.UploadStatusFailed
		if err := uow.MaterialUploadRepository().Update(ctx, upload); err != nil {
			p.log.Error("MaterialProcessor", "failed to mark upload failed", map[string]interface{}{"upload_id": upload.Id.String(), "error": err.Error()})
		}
		p.publishProgress(upload.Id, progress.StepFailed, 100, message, job.Id)
	}

	if p.eventPublisher != nil {
		evt := events.NewJobFailedEvent(job.UserId, job.Id, string(job.Type), code, message)
		if err := p.eventPublisher.Publish(ctx, evt); err != nil {
			p.log.Warn("MaterialProcessor", "failed to publish failure event", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
		}
	}
}

func (p *MaterialProcessor) advance(ctx context.Context, jobId uuid.UUID, fraction float64, step string) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.JobRepository().UpdateProgress(ctx, jobId, fraction, step); err != nil {
		p.log.Warn("MaterialProcessor", "failed to record job progress", map[string]interface{}{"job_id": jobId.String(), "error": err.Error()})
	}
}

func (p *MaterialProcessor) publishProgress(uploadId uuid.UUID, step string, pct int, message string, jobId uuid.UUID) {
	if uploadId == uuid.Nil {
		return
	}
	err := p.progressBus.Publish(uploadId, progress.UploadProgressEvent{
		Step:     step,
		Progress: pct,
		Message:  message,
		JobId:    jobId.String(),
	})
	if err != nil {
		p.log.Warn("MaterialProcessor", "failed to publish progress", map[string]interface{}{"upload_id": uploadId.String(), "error": err.Error()})
	}
}

// copyChunks clones another material's chunk rows under a new material id,
// preserving order, content, and embeddings.
func copyChunks(src []*entity.MaterialChunk, materialId uuid.UUID, now time.Time) []*entity.MaterialChunk {
	copies := make([]*entity.MaterialChunk, len(src))
	for i, chunk := range src {
		copies[i] = &entity.MaterialChunk{
			Id:         uuid.New(),
			MaterialId: materialId,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
			Embedding:  chunk.Embedding,
			CreatedAt:  now,
		}
	}
	return copies
}

func materialIdFromPayload(payload map[string]interface{}) (uuid.UUID, error) {
	raw, ok := payload["material_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("job payload missing material_id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("job payload has invalid material_id: %w", err)
	}
	return id, nil
}

func extractText(mimeType string, data []byte) (string, error) {
	switch mimeType {
	case "application/pdf":
		return utils.ExtractPdfText(data)
	default:
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("file contains no text")
		}
		return text, nil
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
