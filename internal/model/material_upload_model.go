package model

import (
	"time"

	"github.com/google/uuid"
)

type MaterialUpload struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	FileName   string     `gorm:"type:varchar(255);not null"`
	MimeType   string     `gorm:"type:varchar(128)"`
	SizeBytes  int64      `gorm:"not null;default:0"`
	StorageKey string     `gorm:"type:varchar(512);not null"`
	Status     string     `gorm:"type:varchar(16);not null;default:'PENDING'"`
	MaterialId *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (MaterialUpload) TableName() string {
	return "material_uploads"
}
