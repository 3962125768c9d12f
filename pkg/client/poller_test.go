package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusHandler(t *testing.T, statuses []string, calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}

		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}

		resp := map[string]interface{}{
			"success": true,
			"message": "Job retrieved",
			"data": map[string]interface{}{
				"id":     "4a3f78b1-0000-0000-0000-000000000001",
				"type":   "MATERIAL_PROCESSING",
				"status": statuses[idx],
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestJobPollerWait(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(statusHandler(t, []string{"QUEUED", "RUNNING", "SUCCEEDED"}, &calls))
	defer srv.Close()

	p := NewJobPoller(srv.URL, "test-token")
	p.Interval = 5 * time.Millisecond

	status, err := p.Wait(context.Background(), "4a3f78b1-0000-0000-0000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "SUCCEEDED", status.Status)
	assert.True(t, status.IsTerminal())
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls), "should poll until the first terminal status")
}

func TestJobPollerWaitCancelled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(statusHandler(t, []string{"RUNNING"}, &calls))
	defer srv.Close()

	p := NewJobPoller(srv.URL, "test-token")
	p.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	_, err := p.Wait(ctx, "4a3f78b1-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJobPollerFetch(t *testing.T) {
	t.Run("decodes the response envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/job/v1/abc", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"message":"ok","data":{"id":"abc","type":"PLAN_GENERATION","status":"FAILED","current_step":null,"error_code":"AI_UNAVAILABLE","error_message":"no provider"}}`))
		}))
		defer srv.Close()

		p := NewJobPoller(srv.URL, "")
		status, err := p.Fetch(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "FAILED", status.Status)
		require.NotNil(t, status.ErrorCode)
		assert.Equal(t, "AI_UNAVAILABLE", *status.ErrorCode)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"JOB_NOT_FOUND"}`))
		}))
		defer srv.Close()

		p := NewJobPoller(srv.URL, "")
		_, err := p.Fetch(context.Background(), "missing")
		assert.Error(t, err)
	})

	t.Run("missing data is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"message":"ok"}`))
		}))
		defer srv.Close()

		p := NewJobPoller(srv.URL, "")
		_, err := p.Fetch(context.Background(), "abc")
		assert.Error(t, err)
	})
}
