package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Material struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	ContentHash string    `gorm:"type:varchar(64);not null;index"`
	StorageKey  string    `gorm:"type:varchar(512);not null"`
	MimeType    string    `gorm:"type:varchar(128)"`
	Status      string    `gorm:"type:varchar(16);not null;default:'PROCESSING'"`
	SummaryMd   string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Material) TableName() string {
	return "materials"
}
