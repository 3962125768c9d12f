package mapper

import (
	"encoding/json"
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanMapper struct{}

func NewPlanMapper() *PlanMapper {
	return &PlanMapper{}
}

func (m *PlanMapper) ToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Plan{
		Id:        p.Id,
		UserId:    p.UserId,
		Title:     p.Title,
		Goal:      p.Goal,
		Status:    entity.PlanStatus(p.Status),
		SummaryMd: p.SummaryMd,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: p.DeletedAt.Valid,
	}
}

func (m *PlanMapper) ToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Plan{
		Id:        p.Id,
		UserId:    p.UserId,
		Title:     p.Title,
		Goal:      p.Goal,
		Status:    string(p.Status),
		SummaryMd: p.SummaryMd,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *PlanMapper) ToEntities(plans []*model.Plan) []*entity.Plan {
	entities := make([]*entity.Plan, len(plans))
	for i, p := range plans {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var blueprint []entity.BlueprintStep
	if len(s.Blueprint) > 0 {
		_ = json.Unmarshal(s.Blueprint, &blueprint)
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		Id:        s.Id,
		PlanId:    s.PlanId,
		Title:     s.Title,
		Position:  s.Position,
		Blueprint: blueprint,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	blueprint := datatypes.JSON([]byte("[]"))
	if s.Blueprint != nil {
		if raw, err := json.Marshal(s.Blueprint); err == nil {
			blueprint = datatypes.JSON(raw)
		}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		Id:        s.Id,
		PlanId:    s.PlanId,
		Title:     s.Title,
		Position:  s.Position,
		Blueprint: blueprint,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
