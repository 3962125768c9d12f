package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Plan struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Goal      string         `gorm:"type:text"`
	Status    string         `gorm:"type:varchar(16);not null;default:'PENDING'"`
	SummaryMd string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanMaterial links a plan to the materials it was generated from.
type PlanMaterial struct {
	PlanId     uuid.UUID `gorm:"type:uuid;primaryKey"`
	MaterialId uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (PlanMaterial) TableName() string {
	return "plan_materials"
}
