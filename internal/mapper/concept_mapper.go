package mapper

import (
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ConceptMapper struct{}

func NewConceptMapper() *ConceptMapper {
	return &ConceptMapper{}
}

func (m *ConceptMapper) ToEntity(c *model.Concept) *entity.Concept {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Concept{
		Id:         c.Id,
		UserId:     c.UserId,
		MaterialId: c.MaterialId,
		Name:       c.Name,
		Definition: c.Definition,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ConceptMapper) ToModel(c *entity.Concept) *model.Concept {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Concept{
		Id:         c.Id,
		UserId:     c.UserId,
		MaterialId: c.MaterialId,
		Name:       c.Name,
		Definition: c.Definition,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ConceptMapper) ToEntities(concepts []*model.Concept) []*entity.Concept {
	entities := make([]*entity.Concept, len(concepts))
	for i, c := range concepts {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

type ReviewScheduleMapper struct{}

func NewReviewScheduleMapper() *ReviewScheduleMapper {
	return &ReviewScheduleMapper{}
}

func (m *ReviewScheduleMapper) ToEntity(r *model.ReviewSchedule) *entity.ReviewSchedule {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.ReviewSchedule{
		Id:           r.Id,
		UserId:       r.UserId,
		ConceptId:    r.ConceptId,
		DueAt:        r.DueAt,
		IntervalDays: r.IntervalDays,
		Ease:         r.Ease,
		Repetition:   r.Repetition,
		LastGrade:    r.LastGrade,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ReviewScheduleMapper) ToModel(r *entity.ReviewSchedule) *model.ReviewSchedule {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.ReviewSchedule{
		Id:           r.Id,
		UserId:       r.UserId,
		ConceptId:    r.ConceptId,
		DueAt:        r.DueAt,
		IntervalDays: r.IntervalDays,
		Ease:         r.Ease,
		Repetition:   r.Repetition,
		LastGrade:    r.LastGrade,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ReviewScheduleMapper) ToEntities(schedules []*model.ReviewSchedule) []*entity.ReviewSchedule {
	entities := make([]*entity.ReviewSchedule, len(schedules))
	for i, r := range schedules {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
