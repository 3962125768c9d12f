package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Concept struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialId *uuid.UUID      `gorm:"type:uuid;index"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Definition string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (Concept) TableName() string {
	return "concepts"
}
