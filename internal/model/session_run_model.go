package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionRun rows are guarded by a partial unique index on (session_id)
// WHERE status = 'RUNNING', created in cmd/migrate. That index is what makes
// start-or-resume safe under concurrent duplicate calls.
type SessionRun struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	PlanId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status     string         `gorm:"type:varchar(16);not null;index;default:'RUNNING'"`
	StepIndex  int            `gorm:"not null;default:0"`
	Inputs     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	SavedAt    *time.Time
	ExitReason *string        `gorm:"type:varchar(64)"`
	Summary    datatypes.JSON `gorm:"type:jsonb"`
	StartedAt  time.Time      `gorm:"autoCreateTime"`
	EndedAt    *time.Time
}

func (SessionRun) TableName() string {
	return "session_runs"
}
