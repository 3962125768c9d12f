package model

import (
	"time"

	"github.com/google/uuid"
)

type ReviewSchedule struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	ConceptId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DueAt        time.Time `gorm:"not null;index"`
	IntervalDays float64   `gorm:"not null;default:1"`
	Ease         float64   `gorm:"not null;default:2.5"`
	Repetition   int       `gorm:"not null;default:0"`
	LastGrade    *int
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ReviewSchedule) TableName() string {
	return "review_schedules"
}
