package worker

import (
	"testing"
	"time"

	"ai-studyflow-be/internal/entity"

	"github.com/google/uuid"
)

func TestCopyChunks(t *testing.T) {
	srcMaterial := uuid.New()
	dstMaterial := uuid.New()
	now := time.Now()

	src := []*entity.MaterialChunk{
		{Id: uuid.New(), MaterialId: srcMaterial, ChunkIndex: 0, Content: "first", Embedding: []float32{0.1, 0.2}},
		{Id: uuid.New(), MaterialId: srcMaterial, ChunkIndex: 1, Content: "second", Embedding: []float32{0.3, 0.4}},
		{Id: uuid.New(), MaterialId: srcMaterial, ChunkIndex: 2, Content: "third"},
	}

	copies := copyChunks(src, dstMaterial, now)

	if len(copies) != len(src) {
		t.Fatalf("expected %d copies, got %d", len(src), len(copies))
	}
	for i, c := range copies {
		if c.Id == src[i].Id {
			t.Errorf("copy %d reuses the source row id", i)
		}
		if c.MaterialId != dstMaterial {
			t.Errorf("copy %d points at material %s, want %s", i, c.MaterialId, dstMaterial)
		}
		if c.ChunkIndex != src[i].ChunkIndex {
			t.Errorf("copy %d has index %d, want %d", i, c.ChunkIndex, src[i].ChunkIndex)
		}
		if c.Content != src[i].Content {
			t.Errorf("copy %d lost its content", i)
		}
		if len(c.Embedding) != len(src[i].Embedding) {
			t.Errorf("copy %d lost its embedding", i)
		}
	}
}

func TestCopyChunksEmptySource(t *testing.T) {
	copies := copyChunks(nil, uuid.New(), time.Now())
	if len(copies) != 0 {
		t.Fatalf("expected no copies for empty source, got %d", len(copies))
	}
}
