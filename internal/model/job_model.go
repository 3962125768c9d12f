package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Job struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type         string         `gorm:"type:varchar(32);not null;index"`
	Status       string         `gorm:"type:varchar(16);not null;index;default:'QUEUED'"`
	Progress     *float64       `gorm:"type:double precision"`
	CurrentStep  *string        `gorm:"type:varchar(64)"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"`
	Result       datatypes.JSON `gorm:"type:jsonb"`
	ErrorCode    *string        `gorm:"type:varchar(64)"`
	ErrorMessage *string        `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}
