package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/pkg/ai"
	"ai-studyflow-be/pkg/events"
	pkgNats "ai-studyflow-be/pkg/nats"
	"ai-studyflow-be/pkg/queue"

	"github.com/google/uuid"
)

// planBlueprint is the JSON shape we ask the model for.
type planBlueprint struct {
	Title     string `json:"title"`
	SummaryMd string `json:"summary_md"`
	Sessions  []struct {
		Title string `json:"title"`
		Steps []struct {
			Title  string `json:"title"`
			Kind   string `json:"kind"`
			Prompt string `json:"prompt"`
		} `json:"steps"`
	} `json:"sessions"`
}

var validStepKinds = map[string]bool{
	"READ":     true,
	"PRACTICE": true,
	"RECALL":   true,
	"QUIZ":     true,
}

// PlanGenerator executes PLAN_GENERATION jobs: gather material context, ask
// the LLM for a session blueprint, persist the sessions, flip the plan READY.
type PlanGenerator struct {
	uowFactory     unitofwork.RepositoryFactory
	llm            ai.LLMProvider
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewPlanGenerator(
	uowFactory unitofwork.RepositoryFactory,
	llm ai.LLMProvider,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) *PlanGenerator {
	return &PlanGenerator{
		uowFactory:     uowFactory,
		llm:            llm,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (g *PlanGenerator) Process(ctx context.Context, msg queue.JobMessage) error {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobRepository().FindOne(ctx, specification.ByID{ID: msg.JobId})
	if err != nil {
		return err
	}
	if job == nil {
		g.log.Warn("PlanGenerator", "job row missing, dropping message", map[string]interface{}{"job_id": msg.JobId.String()})
		return nil
	}

	claimed, err := uow.JobRepository().MarkRunning(ctx, job.Id)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: msg.EntityId})
	if err != nil {
		return err
	}
	if plan == nil {
		g.fail(ctx, job, nil, "PLAN_NOT_FOUND", "plan record disappeared before generation")
		return nil
	}

	plan.Status = entity.PlanStatusGenerating
	if err := uow.PlanRepository().Update(ctx, plan); err != nil {
		return err
	}

	g.advance(ctx, job.Id, 0.2, "GATHERING_CONTEXT")
	materialContext, err := g.materialContext(ctx, uow, plan)
	if err != nil {
		return err
	}
	if materialContext == "" {
		g.fail(ctx, job, plan, "NO_MATERIAL_CONTENT", "linked materials have no usable content")
		return nil
	}

	g.advance(ctx, job.Id, 0.5, "GENERATING")
	raw, err := g.llm.Generate(ctx, buildPlanPrompt(plan.Goal, materialContext), ai.WithTemperature(0.4))
	if err != nil {
		code := "GENERATION_FAILED"
		if errors.Is(err, ai.ErrUnavailable) {
			code = "AI_UNAVAILABLE"
		}
		g.fail(ctx, job, plan, code, "plan generation failed")
		return nil
	}

	g.advance(ctx, job.Id, 0.75, "PARSING")
	blueprint, err := parseBlueprint(raw)
	if err != nil {
		g.fail(ctx, job, plan, "PLAN_PARSE_FAILED", err.Error())
		return nil
	}

	g.advance(ctx, job.Id, 0.9, "FINALIZING")
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	sessions := make([]*entity.Session, 0, len(blueprint.Sessions))
	for i, s := range blueprint.Sessions {
		steps := make([]entity.BlueprintStep, 0, len(s.Steps))
		for _, step := range s.Steps {
			kind := strings.ToUpper(step.Kind)
			if !validStepKinds[kind] {
				kind = "READ"
			}
			steps = append(steps, entity.BlueprintStep{
				Title:  step.Title,
				Kind:   kind,
				Prompt: step.Prompt,
			})
		}
		sessions = append(sessions, &entity.Session{
			Id:        uuid.New(),
			PlanId:    plan.Id,
			Title:     s.Title,
			Position:  i,
			Blueprint: steps,
			CreatedAt: now,
		})
	}

	if err := uow.SessionRepository().CreateBulk(ctx, sessions); err != nil {
		return err
	}

	if blueprint.Title != "" {
		plan.Title = blueprint.Title
	}
	plan.SummaryMd = blueprint.SummaryMd
	plan.Status = entity.PlanStatusReady
	if err := uow.PlanRepository().Update(ctx, plan); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	result := map[string]interface{}{
		"plan_id":       plan.Id.String(),
		"session_count": len(sessions),
	}
	if _, err := uow.JobRepository().MarkSucceeded(ctx, job.Id, result); err != nil {
		g.log.Error("PlanGenerator", "failed to mark job succeeded", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
	}

	if g.eventPublisher != nil {
		if err := g.eventPublisher.Publish(ctx, events.NewPlanReadyEvent(plan.UserId, plan.Id, plan.Title)); err != nil {
			g.log.Warn("PlanGenerator", "failed to publish plan ready event", map[string]interface{}{"plan_id": plan.Id.String(), "error": err.Error()})
		}
		if err := g.eventPublisher.Publish(ctx, events.NewJobCompletedEvent(job.UserId, job.Id, string(job.Type), result)); err != nil {
			g.log.Warn("PlanGenerator", "failed to publish completion event", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
		}
	}

	return nil
}

// materialContext concatenates each linked material's summary, falling back
// to its first chunk when the summary is empty.
func (g *PlanGenerator) materialContext(ctx context.Context, uow unitofwork.UnitOfWork, plan *entity.Plan) (string, error) {
	materialIds, err := uow.PlanRepository().MaterialIds(ctx, plan.Id)
	if err != nil {
		return "", err
	}
	if len(materialIds) == 0 {
		return "", nil
	}

	materials, err := uow.MaterialRepository().FindAll(ctx, specification.ByIDs{IDs: materialIds})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, material := range materials {
		content := material.SummaryMd
		if content == "" {
			chunks, chunkErr := uow.MaterialChunkRepository().FindAll(ctx,
				specification.ByMaterialId{MaterialId: material.Id},
				specification.OrderBy{Field: "chunk_index"},
				specification.Pagination{Limit: 1},
			)
			if chunkErr != nil {
				return "", chunkErr
			}
			if len(chunks) > 0 {
				content = truncate(chunks[0].Content, 2000)
			}
		}
		if content == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", material.Title, content))
	}

	return strings.TrimSpace(sb.String()), nil
}

func buildPlanPrompt(goal, materialContext string) string {
	return fmt.Sprintf(`You are a curriculum designer. Based on the study materials below, produce a learning plan for the goal: %q.

Respond with ONLY a JSON object, no prose, in this exact shape:
{
  "title": "plan title",
  "summary_md": "short markdown summary of the plan",
  "sessions": [
    {
      "title": "session title",
      "steps": [
        {"title": "step title", "kind": "READ|PRACTICE|RECALL|QUIZ", "prompt": "instructions for the learner"}
      ]
    }
  ]
}

Create 3 to 8 sessions, each with 2 to 6 steps.

Study materials:

%s`, goal, truncate(materialContext, 16000))
}

// parseBlueprint tolerates markdown code fences around the JSON the model
// returns.
func parseBlueprint(raw string) (*planBlueprint, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Salvage the outermost object if the model wrapped it in prose.
	if start := strings.Index(cleaned, "{"); start > 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var blueprint planBlueprint
	if err := json.Unmarshal([]byte(cleaned), &blueprint); err != nil {
		return nil, fmt.Errorf("model returned unparseable plan: %w", err)
	}
	if len(blueprint.Sessions) == 0 {
		return nil, fmt.Errorf("model returned a plan with no sessions")
	}
	return &blueprint, nil
}

func (g *PlanGenerator) fail(ctx context.Context, job *entity.Job, plan *entity.Plan, code, message string) {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	if _, err := uow.JobRepository().MarkFailed(ctx, job.Id, code, message); err != nil {
		g.log.Error("PlanGenerator", "failed to mark job failed", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
	}

	if plan != nil {
		plan.Status = entity.PlanStatusFailed
		if err := uow.PlanRepository().Update(ctx, plan); err != nil {
			g.log.Error("PlanGenerator", "failed to mark plan failed", map[string]interface{}{"plan_id": plan.Id.String(), "error": err.Error()})
		}
	}

	if g.eventPublisher != nil {
		evt := events.NewJobFailedEvent(job.UserId, job.Id, string(job.Type), code, message)
		if err := g.eventPublisher.Publish(ctx, evt); err != nil {
			g.log.Warn("PlanGenerator", "failed to publish failure event", map[string]interface{}{"job_id": job.Id.String(), "error": err.Error()})
		}
	}
}

func (g *PlanGenerator) advance(ctx context.Context, jobId uuid.UUID, fraction float64, step string) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	if err := uow.JobRepository().UpdateProgress(ctx, jobId, fraction, step); err != nil {
		g.log.Warn("PlanGenerator", "failed to record job progress", map[string]interface{}{"job_id": jobId.String(), "error": err.Error()})
	}
}
