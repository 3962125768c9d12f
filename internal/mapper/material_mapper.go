package mapper

import (
	"time"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MaterialMapper struct{}

func NewMaterialMapper() *MaterialMapper {
	return &MaterialMapper{}
}

func (m *MaterialMapper) ToEntity(mat *model.Material) *entity.Material {
	if mat == nil {
		return nil
	}

	var deletedAt *time.Time
	if mat.DeletedAt.Valid {
		t := mat.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !mat.UpdatedAt.IsZero() {
		t := mat.UpdatedAt
		updatedAt = &t
	}

	return &entity.Material{
		Id:          mat.Id,
		UserId:      mat.UserId,
		Title:       mat.Title,
		ContentHash: mat.ContentHash,
		StorageKey:  mat.StorageKey,
		MimeType:    mat.MimeType,
		Status:      entity.MaterialStatus(mat.Status),
		SummaryMd:   mat.SummaryMd,
		CreatedAt:   mat.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   mat.DeletedAt.Valid,
	}
}

func (m *MaterialMapper) ToModel(mat *entity.Material) *model.Material {
	if mat == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if mat.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *mat.DeletedAt, Valid: true}
	} else if mat.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if mat.UpdatedAt != nil {
		updatedAt = *mat.UpdatedAt
	}

	return &model.Material{
		Id:          mat.Id,
		UserId:      mat.UserId,
		Title:       mat.Title,
		ContentHash: mat.ContentHash,
		StorageKey:  mat.StorageKey,
		MimeType:    mat.MimeType,
		Status:      string(mat.Status),
		SummaryMd:   mat.SummaryMd,
		CreatedAt:   mat.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *MaterialMapper) ToEntities(materials []*model.Material) []*entity.Material {
	entities := make([]*entity.Material, len(materials))
	for i, mat := range materials {
		entities[i] = m.ToEntity(mat)
	}
	return entities
}

type MaterialUploadMapper struct{}

func NewMaterialUploadMapper() *MaterialUploadMapper {
	return &MaterialUploadMapper{}
}

func (m *MaterialUploadMapper) ToEntity(u *model.MaterialUpload) *entity.MaterialUpload {
	if u == nil {
		return nil
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.MaterialUpload{
		Id:         u.Id,
		UserId:     u.UserId,
		FileName:   u.FileName,
		MimeType:   u.MimeType,
		SizeBytes:  u.SizeBytes,
		StorageKey: u.StorageKey,
		Status:     entity.UploadStatus(u.Status),
		MaterialId: u.MaterialId,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *MaterialUploadMapper) ToModel(u *entity.MaterialUpload) *model.MaterialUpload {
	if u == nil {
		return nil
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	return &model.MaterialUpload{
		Id:         u.Id,
		UserId:     u.UserId,
		FileName:   u.FileName,
		MimeType:   u.MimeType,
		SizeBytes:  u.SizeBytes,
		StorageKey: u.StorageKey,
		Status:     string(u.Status),
		MaterialId: u.MaterialId,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

type MaterialChunkMapper struct{}

func NewMaterialChunkMapper() *MaterialChunkMapper {
	return &MaterialChunkMapper{}
}

func (m *MaterialChunkMapper) ToEntity(c *model.MaterialChunk) *entity.MaterialChunk {
	if c == nil {
		return nil
	}
	return &entity.MaterialChunk{
		Id:         c.Id,
		MaterialId: c.MaterialId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *MaterialChunkMapper) ToModel(c *entity.MaterialChunk) *model.MaterialChunk {
	if c == nil {
		return nil
	}
	return &model.MaterialChunk{
		Id:         c.Id,
		MaterialId: c.MaterialId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *MaterialChunkMapper) ToModels(chunks []*entity.MaterialChunk) []*model.MaterialChunk {
	models := make([]*model.MaterialChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
