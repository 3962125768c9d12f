package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Concept is a unit of knowledge extracted from a material, reviewable via
// spaced repetition.
type Concept struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	MaterialId *uuid.UUID
	Name       string
	Definition string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// NewReviewSchedule seeds the spaced-repetition state for a freshly learned
// concept: due tomorrow, default ease.
func NewReviewSchedule(userId, conceptId uuid.UUID, now time.Time) *ReviewSchedule {
	return &ReviewSchedule{
		Id:           uuid.New(),
		UserId:       userId,
		ConceptId:    conceptId,
		DueAt:        now.Add(24 * time.Hour),
		IntervalDays: 1,
		Ease:         2.5,
		Repetition:   0,
		CreatedAt:    now,
	}
}

// ReviewSchedule carries the SM-2 style state for one concept.
type ReviewSchedule struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	ConceptId    uuid.UUID
	DueAt        time.Time
	IntervalDays float64
	Ease         float64
	Repetition   int
	LastGrade    *int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// ApplyGrade advances the SM-2 state for a recall grade in [0,5].
// Grades below 3 reset the repetition streak; ease never drops below 1.3.
func (s *ReviewSchedule) ApplyGrade(grade int, now time.Time) {
	if grade < 0 {
		grade = 0
	}
	if grade > 5 {
		grade = 5
	}

	if grade < 3 {
		s.Repetition = 0
		s.IntervalDays = 1
	} else {
		switch s.Repetition {
		case 0:
			s.IntervalDays = 1
		case 1:
			s.IntervalDays = 6
		default:
			s.IntervalDays = math.Round(s.IntervalDays * s.Ease)
		}
		s.Repetition++
	}

	q := float64(grade)
	s.Ease = s.Ease + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if s.Ease < 1.3 {
		s.Ease = 1.3
	}

	s.DueAt = now.Add(time.Duration(s.IntervalDays*24) * time.Hour)
	s.LastGrade = &grade
}
