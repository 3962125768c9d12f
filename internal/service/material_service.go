package service

import (
	"context"
	"errors"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/pkg/embedding"

	"github.com/google/uuid"
)

type IMaterialService interface {
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMaterialResponse, error)
	List(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ListMaterialsResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	SearchChunks(ctx context.Context, userId uuid.UUID, req *dto.SearchMaterialChunksRequest) ([]*dto.MaterialChunkResult, error)
}

type materialService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewMaterialService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IMaterialService {
	return &materialService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (s *materialService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	material, err := uow.MaterialRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, serverutils.NewNotFound("MATERIAL_NOT_FOUND", "material not found")
	}

	return toMaterialResponse(material), nil
}

func (s *materialService) List(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ListMaterialsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := uow.MaterialRepository().Count(ctx, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}

	materials, err := uow.MaterialRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ShowMaterialResponse, len(materials))
	for i, m := range materials {
		items[i] = *toMaterialResponse(m)
	}

	return &dto.ListMaterialsResponse{
		Materials: items,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

func (s *materialService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	material, err := uow.MaterialRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if material == nil {
		return serverutils.NewNotFound("MATERIAL_NOT_FOUND", "material not found")
	}

	if err := uow.MaterialChunkRepository().DeleteByMaterialId(ctx, id); err != nil {
		return err
	}
	if err := uow.MaterialRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *materialService) SearchChunks(ctx context.Context, userId uuid.UUID, req *dto.SearchMaterialChunksRequest) ([]*dto.MaterialChunkResult, error) {
	embeddingRes, err := s.embeddingProvider.Generate(req.Query, "RETRIEVAL_QUERY")
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			return nil, serverutils.NewInternal("AI_UNAVAILABLE", "semantic search is not available")
		}
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.MaterialChunkRepository().SearchSimilar(ctx, embeddingRes.Embedding.Values, req.Limit, userId)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.MaterialChunkResult, len(chunks))
	for i, chunk := range chunks {
		results[i] = &dto.MaterialChunkResult{
			MaterialId: chunk.MaterialId,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
		}
	}
	return results, nil
}

func toMaterialResponse(m *entity.Material) *dto.ShowMaterialResponse {
	resp := &dto.ShowMaterialResponse{
		Id:        m.Id,
		FileName:  m.Title,
		MimeType:  m.MimeType,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.SummaryMd != "" {
		summary := m.SummaryMd
		resp.SummaryMd = &summary
	}
	return resp
}
