package mapper

import (
	"encoding/json"
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/model"

	"gorm.io/datatypes"
)

type JobMapper struct{}

func NewJobMapper() *JobMapper {
	return &JobMapper{}
}

func (m *JobMapper) ToEntity(j *model.Job) *entity.Job {
	if j == nil {
		return nil
	}

	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}

	return &entity.Job{
		Id:           j.Id,
		UserId:       j.UserId,
		Type:         entity.JobType(j.Type),
		Status:       entity.JobStatus(j.Status),
		Progress:     j.Progress,
		CurrentStep:  j.CurrentStep,
		Payload:      jsonToMap(j.Payload),
		Result:       jsonToMap(j.Result),
		ErrorCode:    j.ErrorCode,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *JobMapper) ToModel(j *entity.Job) *model.Job {
	if j == nil {
		return nil
	}

	var updatedAt time.Time
	if j.UpdatedAt != nil {
		updatedAt = *j.UpdatedAt
	}

	return &model.Job{
		Id:           j.Id,
		UserId:       j.UserId,
		Type:         string(j.Type),
		Status:       string(j.Status),
		Progress:     j.Progress,
		CurrentStep:  j.CurrentStep,
		Payload:      mapToJson(j.Payload),
		Result:       mapToJson(j.Result),
		ErrorCode:    j.ErrorCode,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *JobMapper) ToEntities(jobs []*model.Job) []*entity.Job {
	entities := make([]*entity.Job, len(jobs))
	for i, j := range jobs {
		entities[i] = m.ToEntity(j)
	}
	return entities
}

// jsonToMap and mapToJson are shared by every mapper dealing with jsonb columns.

func jsonToMap(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func mapToJson(data map[string]interface{}) datatypes.JSON {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
