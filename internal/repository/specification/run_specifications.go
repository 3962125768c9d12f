package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionId filters session runs by their parent session
type BySessionId struct {
	SessionId uuid.UUID
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ByPlanId filters by the owning plan
type ByPlanId struct {
	PlanId uuid.UUID
}

func (s ByPlanId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan_id = ?", s.PlanId)
}

// DueBefore filters review schedules whose due date has passed
type DueBefore struct {
	At time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("due_at <= ?", s.At)
}

// ByConceptId filters review schedules by concept
type ByConceptId struct {
	ConceptId uuid.UUID
}

func (s ByConceptId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("concept_id = ?", s.ConceptId)
}

// ByMaterialId filters chunks and concepts by their source material
type ByMaterialId struct {
	MaterialId uuid.UUID
}

func (s ByMaterialId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("material_id = ?", s.MaterialId)
}

// ByContentHash finds a material by its dedup hash
type ByContentHash struct {
	Hash string
}

func (s ByContentHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_hash = ?", s.Hash)
}
