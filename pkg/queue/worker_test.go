package queue

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeJobMsg struct {
	data  []byte
	acked chan struct{}
	nak   atomic.Bool
	term  atomic.Bool
}

func newFakeJobMsg(data []byte) *fakeJobMsg {
	return &fakeJobMsg{data: data, acked: make(chan struct{})}
}

func (m *fakeJobMsg) Data() []byte { return m.data }
func (m *fakeJobMsg) Ack() error   { close(m.acked); return nil }
func (m *fakeJobMsg) Nak() error   { m.nak.Store(true); return nil }
func (m *fakeJobMsg) Term() error  { m.term.Store(true); return nil }

func TestWorkerDispatchBoundsConcurrency(t *testing.T) {
	const concurrency = 2
	const jobs = 10

	var inFlight, peak int32
	release := make(chan struct{})

	w := &Worker{
		name:        "material",
		concurrency: concurrency,
		log:         noopLogger{},
		sem:         make(chan struct{}, concurrency),
		base:        context.Background(),
		handler: func(ctx context.Context, msg JobMessage) error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&inFlight, -1)
			return nil
		},
	}

	payload, err := json.Marshal(JobMessage{JobId: uuid.New(), EntityId: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}

	msgs := make([]*fakeJobMsg, jobs)
	for i := range msgs {
		msgs[i] = newFakeJobMsg(payload)
	}

	// Feed messages sequentially the way the consumer callback does; dispatch
	// blocks once both slots are busy.
	go func() {
		for _, m := range msgs {
			w.dispatch(m)
		}
	}()

	waitForInt32(t, &inFlight, concurrency)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&inFlight); got != concurrency {
		t.Fatalf("expected exactly %d handlers in flight while blocked, got %d", concurrency, got)
	}

	close(release)

	for i, m := range msgs {
		select {
		case <-m.acked:
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d was never acked", i)
		}
	}

	if got := atomic.LoadInt32(&peak); got != concurrency {
		t.Fatalf("expected peak concurrency %d, observed %d", concurrency, got)
	}
	for i, m := range msgs {
		if m.nak.Load() || m.term.Load() {
			t.Fatalf("message %d was nacked or terminated unexpectedly", i)
		}
	}
}

func TestWorkerProcessTermsMalformedPayload(t *testing.T) {
	w := &Worker{
		name:        "material",
		concurrency: 1,
		log:         noopLogger{},
		sem:         make(chan struct{}, 1),
		base:        context.Background(),
		handler: func(ctx context.Context, msg JobMessage) error {
			t.Fatal("handler must not run for a malformed payload")
			return nil
		},
	}

	msg := newFakeJobMsg([]byte("not json"))
	w.process(msg)

	if !msg.term.Load() {
		t.Fatal("malformed payload must be terminated, not redelivered")
	}
}

func waitForInt32(t *testing.T, v *int32, want int32) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(v) != want {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for value %d, have %d", want, atomic.LoadInt32(v))
		case <-time.After(5 * time.Millisecond):
		}
	}
}
