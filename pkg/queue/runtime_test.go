package queue

import (
	"context"
	"errors"
	"testing"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeClosable struct {
	err    error
	order  *[]string
	name   string
	closed bool
}

func (f *fakeClosable) Close(ctx context.Context) error {
	f.closed = true
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	return f.err
}

func TestRuntimeShutdown(t *testing.T) {
	t.Run("closes newest first", func(t *testing.T) {
		r := NewRuntime(noopLogger{})
		var order []string

		first := &fakeClosable{name: "first", order: &order}
		second := &fakeClosable{name: "second", order: &order}
		r.Register("first", first)
		r.Register("second", second)

		r.Shutdown(context.Background())

		if len(order) != 2 || order[0] != "second" || order[1] != "first" {
			t.Errorf("close order = %v, want [second first]", order)
		}
	})

	t.Run("one failing close does not block the rest", func(t *testing.T) {
		r := NewRuntime(noopLogger{})

		ok := &fakeClosable{name: "ok"}
		bad := &fakeClosable{name: "bad", err: errors.New("drain timeout")}
		r.Register("ok", ok)
		r.Register("bad", bad)

		r.Shutdown(context.Background())

		if !bad.closed || !ok.closed {
			t.Errorf("closed = bad:%v ok:%v, want both", bad.closed, ok.closed)
		}
	})

	t.Run("second shutdown is a no-op", func(t *testing.T) {
		r := NewRuntime(noopLogger{})
		var order []string
		r.Register("once", &fakeClosable{name: "once", order: &order})

		r.Shutdown(context.Background())
		r.Shutdown(context.Background())

		if len(order) != 1 {
			t.Errorf("component closed %d times, want 1", len(order))
		}
	})
}
