package queue

import "github.com/google/uuid"

const (
	// StreamName is the JetStream stream holding all job subjects.
	StreamName = "JOBS"

	SubjectMaterial = "jobs.material"
	SubjectPlan     = "jobs.plan"

	DurableMaterial = "material-worker"
	DurablePlan     = "plan-worker"
)

// JobMessage is the wire payload for both queues. EntityId is the uploadId
// for material jobs and the planId for plan jobs.
type JobMessage struct {
	JobId    uuid.UUID `json:"job_id"`
	EntityId uuid.UUID `json:"entity_id"`
}
