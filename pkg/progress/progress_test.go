package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploadId := uuid.New()
	events, err := bus.Subscribe(ctx, uploadId)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(uploadId, UploadProgressEvent{Step: StepPreparing, Progress: 5}))
	require.NoError(t, bus.Publish(uploadId, UploadProgressEvent{Step: StepVerifying, Progress: 35, Message: "verifying uploaded object"}))

	got := receiveEvents(t, events, 2)
	assert.Equal(t, StepPreparing, got[0].Step)
	assert.Equal(t, 5, got[0].Progress)
	assert.Equal(t, uploadId.String(), got[0].UploadId, "publisher stamps the upload id")
	assert.Equal(t, StepVerifying, got[1].Step)
	assert.Equal(t, "verifying uploaded object", got[1].Message)
}

func TestBusPreservesPublishOrder(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploadId := uuid.New()
	events, err := bus.Subscribe(ctx, uploadId)
	require.NoError(t, err)

	steps := []string{
		StepPreparing, StepVerifying, StepLoading, StepChecking,
		StepStoring, StepAnalyzing, StepFinalizing, StepCompleted,
	}
	for i, step := range steps {
		require.NoError(t, bus.Publish(uploadId, UploadProgressEvent{Step: step, Progress: i * 10}))
	}

	got := receiveEvents(t, events, len(steps))
	for i, step := range steps {
		assert.Equal(t, step, got[i].Step, "event %d arrived out of order", i)
	}
}

func TestBusTopicIsolation(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := uuid.New()
	other := uuid.New()

	events, err := bus.Subscribe(ctx, mine)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(other, UploadProgressEvent{Step: StepAnalyzing, Progress: 80}))
	require.NoError(t, bus.Publish(mine, UploadProgressEvent{Step: StepCompleted, Progress: 100}))

	got := receiveEvents(t, events, 1)
	assert.Equal(t, StepCompleted, got[0].Step, "must only see own upload's events")

	select {
	case e := <-events:
		t.Errorf("unexpected extra event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusSubscribeClosesOnCancel(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())

	events, err := bus.Subscribe(ctx, uuid.New())
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open, "channel should close after cancel")
	case <-time.After(time.Second):
		t.Fatal("subscription channel did not close after context cancel")
	}
}

func receiveEvents(t *testing.T, events <-chan UploadProgressEvent, n int) []UploadProgressEvent {
	t.Helper()
	var got []UploadProgressEvent
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case e, open := <-events:
			if !open {
				t.Fatalf("event channel closed after %d of %d events", len(got), n)
			}
			got = append(got, e)
		case <-timeout:
			t.Fatalf("timed out waiting for %d events, got %d", n, len(got))
		}
	}
	return got
}
