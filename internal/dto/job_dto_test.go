package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// All response payloads use snake_case keys; job responses used to be the
// lone camelCase holdout.
func TestShowJobResponseUsesSnakeCaseKeys(t *testing.T) {
	step := "ANALYZING"
	progress := 0.7
	now := time.Now()

	data, err := json.Marshal(ShowJobResponse{
		Id:          uuid.New(),
		Type:        "MATERIAL_PROCESSING",
		Status:      "RUNNING",
		Progress:    &progress,
		CurrentStep: &step,
		CreatedAt:   now,
		UpdatedAt:   &now,
	})
	if err != nil {
		t.Fatal(err)
	}

	body := string(data)
	for _, key := range []string{`"current_step"`, `"created_at"`, `"updated_at"`} {
		if !strings.Contains(body, key) {
			t.Errorf("expected key %s in %s", key, body)
		}
	}
	for _, key := range []string{"currentStep", "createdAt", "updatedAt", "errorCode"} {
		if strings.Contains(body, key) {
			t.Errorf("unexpected camelCase key %q in %s", key, body)
		}
	}
}
