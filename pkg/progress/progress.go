package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries progress events between processes: workers publish
// pipeline steps while the SSE subscribers live in the rest process.
const redisChannel = "upload_progress_events"

// Step values for upload progress events, in pipeline order. COMPLETED and
// FAILED are terminal; subscribers stop reading after either.
const (
	StepPreparing  = "PREPARING"
	StepVerifying  = "VERIFYING"
	StepLoading    = "LOADING"
	StepChecking   = "CHECKING"
	StepStoring    = "STORING"
	StepAnalyzing  = "ANALYZING"
	StepFinalizing = "FINALIZING"
	StepCompleted  = "COMPLETED"
	StepFailed     = "FAILED"
)

// UploadProgressEvent is the payload streamed to clients watching an upload.
type UploadProgressEvent struct {
	UploadId string `json:"upload_id"`
	Step     string `json:"step"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	JobId    string `json:"job_id,omitempty"`
}

// Bus fans out per-upload progress events. Each upload gets its own local
// topic so subscribers only see their own stream. With a Redis client the bus
// also relays events across processes, so steps published by a worker reach
// SSE subscribers in the rest process; without one it stays in-process.
type Bus struct {
	pubSub *gochannel.GoChannel
	rdb    *redis.Client
	cancel context.CancelFunc
}

func NewBus(rdb *redis.Client) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			// Keeps per-topic delivery in publish order.
			BlockPublishUntilSubscriberAck: true,
		}, watermill.NewStdLogger(false, false)),
		rdb:    rdb,
		cancel: cancel,
	}
	if rdb != nil {
		go b.relayFromRedis(ctx)
	}
	return b
}

func topicFor(uploadId uuid.UUID) string {
	return fmt.Sprintf("upload.progress.%s", uploadId)
}

// Publish emits a progress event for the given upload. With Redis configured
// the event goes through the shared channel and the relay delivers it to
// local subscribers along with every other process.
func (b *Bus) Publish(uploadId uuid.UUID, event UploadProgressEvent) error {
	event.UploadId = uploadId.String()
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	if b.rdb != nil {
		return b.rdb.Publish(context.Background(), redisChannel, data).Err()
	}
	return b.deliverLocal(uploadId, data)
}

func (b *Bus) deliverLocal(uploadId uuid.UUID, data []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.pubSub.Publish(topicFor(uploadId), msg)
}

// relayFromRedis feeds every event on the shared channel into the local
// pub/sub, routed by the upload id stamped into the payload.
func (b *Bus) relayFromRedis(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			var event UploadProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			uploadId, err := uuid.Parse(event.UploadId)
			if err != nil {
				continue
			}
			_ = b.deliverLocal(uploadId, []byte(msg.Payload))
		}
	}
}

// Subscribe returns a channel of progress events for one upload. The channel
// closes when ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, uploadId uuid.UUID) (<-chan UploadProgressEvent, error) {
	messages, err := b.pubSub.Subscribe(ctx, topicFor(uploadId))
	if err != nil {
		return nil, err
	}

	out := make(chan UploadProgressEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			var event UploadProgressEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close stops the Redis relay and shuts the local pub/sub down.
func (b *Bus) Close() error {
	b.cancel()
	return b.pubSub.Close()
}
