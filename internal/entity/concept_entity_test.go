package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReviewSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := NewReviewSchedule(uuid.New(), uuid.New(), now)

	if !s.DueAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("DueAt = %v, want due tomorrow", s.DueAt)
	}
	if s.IntervalDays != 1 {
		t.Errorf("IntervalDays = %v, want 1", s.IntervalDays)
	}
	if s.Ease != 2.5 {
		t.Errorf("Ease = %v, want 2.5", s.Ease)
	}
	if s.Repetition != 0 {
		t.Errorf("Repetition = %d, want 0", s.Repetition)
	}
}

func TestReviewScheduleApplyGrade(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("good grades grow the interval 1, 6, then ease-scaled", func(t *testing.T) {
		s := NewReviewSchedule(uuid.New(), uuid.New(), now)

		s.ApplyGrade(5, now)
		if s.IntervalDays != 1 || s.Repetition != 1 {
			t.Errorf("after 1st pass: interval=%v rep=%d, want 1/1", s.IntervalDays, s.Repetition)
		}

		s.ApplyGrade(5, now)
		if s.IntervalDays != 6 || s.Repetition != 2 {
			t.Errorf("after 2nd pass: interval=%v rep=%d, want 6/2", s.IntervalDays, s.Repetition)
		}

		easeBefore := s.Ease
		s.ApplyGrade(5, now)
		if s.IntervalDays <= 6 {
			t.Errorf("after 3rd pass: interval=%v, want > 6", s.IntervalDays)
		}
		if s.Repetition != 3 {
			t.Errorf("Repetition = %d, want 3", s.Repetition)
		}
		if s.Ease <= easeBefore {
			t.Errorf("Ease = %v, want growth after perfect grade", s.Ease)
		}
		if !s.DueAt.Equal(now.Add(time.Duration(s.IntervalDays*24) * time.Hour)) {
			t.Errorf("DueAt = %v, want now + interval", s.DueAt)
		}
	})

	t.Run("failing grade resets the streak", func(t *testing.T) {
		s := NewReviewSchedule(uuid.New(), uuid.New(), now)
		s.ApplyGrade(5, now)
		s.ApplyGrade(5, now)
		s.ApplyGrade(5, now)

		s.ApplyGrade(1, now)
		if s.Repetition != 0 {
			t.Errorf("Repetition = %d, want reset to 0", s.Repetition)
		}
		if s.IntervalDays != 1 {
			t.Errorf("IntervalDays = %v, want reset to 1", s.IntervalDays)
		}
		if !s.DueAt.Equal(now.Add(24 * time.Hour)) {
			t.Errorf("DueAt = %v, want due tomorrow after lapse", s.DueAt)
		}
	})

	t.Run("ease never drops below 1.3", func(t *testing.T) {
		s := NewReviewSchedule(uuid.New(), uuid.New(), now)
		for i := 0; i < 20; i++ {
			s.ApplyGrade(0, now)
		}
		if s.Ease < 1.3 {
			t.Errorf("Ease = %v, want floor of 1.3", s.Ease)
		}
	})

	t.Run("out-of-range grades are clamped", func(t *testing.T) {
		s := NewReviewSchedule(uuid.New(), uuid.New(), now)
		s.ApplyGrade(9, now)
		if s.LastGrade == nil || *s.LastGrade != 5 {
			t.Errorf("LastGrade = %v, want clamped to 5", s.LastGrade)
		}

		s.ApplyGrade(-2, now)
		if s.LastGrade == nil || *s.LastGrade != 0 {
			t.Errorf("LastGrade = %v, want clamped to 0", s.LastGrade)
		}
		if s.Repetition != 0 {
			t.Errorf("Repetition = %d, want reset by failing grade", s.Repetition)
		}
	})
}
