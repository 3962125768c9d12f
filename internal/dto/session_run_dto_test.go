package dto

import (
	"testing"

	"ai-studyflow-be/internal/pkg/serverutils"

	"github.com/google/uuid"
)

// Out-of-range step indexes are clamped by the run state machine, so request
// validation must let them through instead of rejecting with a 422.
func TestSaveRunProgressRequestAcceptsOutOfRangeStepIndex(t *testing.T) {
	cases := []struct {
		name      string
		stepIndex int
	}{
		{"negative", -5},
		{"zero", 0},
		{"huge", 10000},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := SaveRunProgressRequest{
				RunId:     uuid.New(),
				StepIndex: c.stepIndex,
				Inputs:    map[string]interface{}{"q1": "a"},
			}
			if err := serverutils.ValidateRequest(req); err != nil {
				t.Fatalf("expected step index %d to pass validation, got %v", c.stepIndex, err)
			}
		})
	}
}
