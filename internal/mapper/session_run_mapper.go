package mapper

import (
	"encoding/json"
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/model"

	"gorm.io/datatypes"
)

type SessionRunMapper struct{}

func NewSessionRunMapper() *SessionRunMapper {
	return &SessionRunMapper{}
}

func (m *SessionRunMapper) ToEntity(r *model.SessionRun) *entity.SessionRun {
	if r == nil {
		return nil
	}

	var summary *entity.RunSummary
	if len(r.Summary) > 0 {
		var s entity.RunSummary
		if err := json.Unmarshal(r.Summary, &s); err == nil {
			summary = &s
		}
	}

	inputs := jsonToMap(r.Inputs)
	if inputs == nil {
		inputs = map[string]interface{}{}
	}

	return &entity.SessionRun{
		Id:         r.Id,
		SessionId:  r.SessionId,
		PlanId:     r.PlanId,
		UserId:     r.UserId,
		Status:     entity.SessionRunStatus(r.Status),
		StepIndex:  r.StepIndex,
		Inputs:     inputs,
		SavedAt:    r.SavedAt,
		ExitReason: r.ExitReason,
		Summary:    summary,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
	}
}

func (m *SessionRunMapper) ToModel(r *entity.SessionRun) *model.SessionRun {
	if r == nil {
		return nil
	}

	var summary datatypes.JSON
	if r.Summary != nil {
		if raw, err := json.Marshal(r.Summary); err == nil {
			summary = datatypes.JSON(raw)
		}
	}

	inputs := mapToJson(r.Inputs)
	if inputs == nil {
		inputs = datatypes.JSON([]byte("{}"))
	}

	var savedAt *time.Time
	if r.SavedAt != nil {
		t := *r.SavedAt
		savedAt = &t
	}

	return &model.SessionRun{
		Id:         r.Id,
		SessionId:  r.SessionId,
		PlanId:     r.PlanId,
		UserId:     r.UserId,
		Status:     string(r.Status),
		StepIndex:  r.StepIndex,
		Inputs:     inputs,
		SavedAt:    savedAt,
		ExitReason: r.ExitReason,
		Summary:    summary,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
	}
}

func (m *SessionRunMapper) ToEntities(runs []*model.SessionRun) []*entity.SessionRun {
	entities := make([]*entity.SessionRun, len(runs))
	for i, r := range runs {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
