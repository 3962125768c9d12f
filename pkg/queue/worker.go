package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-studyflow-be/internal/pkg/logger"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// HandlerFunc processes a single dequeued job. A nil return acknowledges the
// message; an error triggers redelivery. Handlers are expected to record
// job-level failures themselves and return nil, so errors here mean the
// handler could not run at all.
type HandlerFunc func(ctx context.Context, msg JobMessage) error

// Worker consumes a job subject with a durable consumer and bounded
// concurrency.
type Worker struct {
	name        string
	subject     string
	durable     string
	concurrency int
	handler     HandlerFunc
	log         logger.ILogger

	nc   *nats.Conn
	js   jetstream.JetStream
	cc   jetstream.ConsumeContext
	sem  chan struct{}
	base context.Context
	stop context.CancelFunc
}

// NewWorker connects to NATS and prepares a worker for the given subject.
func NewWorker(url, name, subject, durable string, concurrency int, handler HandlerFunc, log logger.ILogger) (*Worker, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	base, stop := context.WithCancel(context.Background())

	return &Worker{
		name:        name,
		subject:     subject,
		durable:     durable,
		concurrency: concurrency,
		handler:     handler,
		log:         log,
		nc:          nc,
		js:          js,
		sem:         make(chan struct{}, concurrency),
		base:        base,
		stop:        stop,
	}, nil
}

// Start creates the durable consumer and begins consuming. It returns once
// consumption is running; messages are handled on background goroutines.
func (w *Worker) Start(ctx context.Context) error {
	consumer, err := w.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       w.durable,
		FilterSubject: w.subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxAckPending: w.concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %q: %w", w.durable, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		w.dispatch(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming %q: %w", w.subject, err)
	}

	w.cc = cc
	w.log.Info(w.name, "worker started", map[string]interface{}{
		"subject":     w.subject,
		"durable":     w.durable,
		"concurrency": w.concurrency,
	})
	return nil
}

// jobMsg is the slice of jetstream.Msg the dispatch path needs, which keeps
// the bounded-concurrency behavior testable without a broker.
type jobMsg interface {
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// dispatch hands one message to the handler on a background goroutine. It
// blocks while every concurrency slot is busy, so at most `concurrency`
// handlers run at once.
func (w *Worker) dispatch(msg jobMsg) {
	w.sem <- struct{}{}
	go func() {
		defer func() { <-w.sem }()
		w.process(msg)
	}()
}

func (w *Worker) process(msg jobMsg) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error(w.name, "panic while processing job", map[string]interface{}{"panic": fmt.Sprintf("%v", r)})
			msg.Term()
		}
	}()

	var payload JobMessage
	if err := json.Unmarshal(msg.Data(), &payload); err != nil {
		// Malformed payloads can never succeed on redelivery.
		w.log.Error(w.name, "dropping malformed job message", map[string]interface{}{"error": err.Error()})
		msg.Term()
		return
	}

	if err := w.handler(w.base, payload); err != nil {
		w.log.Error(w.name, "job handler failed, scheduling redelivery", map[string]interface{}{
			"job_id": payload.JobId.String(),
			"error":  err.Error(),
		})
		msg.Nak()
		return
	}

	msg.Ack()
}

// Close drains the consumer, waits for in-flight handlers to finish (bounded
// by ctx), and closes the connection.
func (w *Worker) Close(ctx context.Context) error {
	if w.cc != nil {
		w.cc.Drain()
	}

	// Acquire every semaphore slot to wait for in-flight handlers.
	for i := 0; i < w.concurrency; i++ {
		select {
		case w.sem <- struct{}{}:
		case <-ctx.Done():
			w.stop()
			w.nc.Close()
			return fmt.Errorf("worker %s: shutdown deadline exceeded with handlers in flight", w.name)
		}
	}

	w.stop()
	w.nc.Close()
	return nil
}
