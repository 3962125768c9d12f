package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-studyflow-be/pkg/progress"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	return rdb
}

// Two buses sharing one Redis stand in for the worker and rest processes: a
// step published on one side must reach a subscriber on the other.
func TestProgressRelayAcrossProcesses(t *testing.T) {
	rdb := testRedis(t)

	workerBus := progress.NewBus(rdb)
	defer workerBus.Close()
	restBus := progress.NewBus(rdb)
	defer restBus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadId := uuid.New()
	events, err := restBus.Subscribe(ctx, uploadId)
	require.NoError(t, err)

	// Redis pub/sub drops anything published before the relay subscription
	// is live.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, workerBus.Publish(uploadId, progress.UploadProgressEvent{
		Step:     progress.StepAnalyzing,
		Progress: 80,
	}))
	require.NoError(t, workerBus.Publish(uploadId, progress.UploadProgressEvent{
		Step:     progress.StepCompleted,
		Progress: 100,
		Message:  "material ready",
	}))

	var got []progress.UploadProgressEvent
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-events:
			got = append(got, e)
		case <-timeout:
			t.Fatalf("timed out waiting for relayed events, got %d", len(got))
		}
	}

	assert.Equal(t, progress.StepAnalyzing, got[0].Step)
	assert.Equal(t, progress.StepCompleted, got[1].Step)
	assert.Equal(t, 100, got[1].Progress)
	assert.Equal(t, uploadId.String(), got[1].UploadId)
}
