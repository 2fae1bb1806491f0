package service

import (
	"testing"
	"time"

	"habit-quest/internal/domain"
)

func habitChecks(habit domain.Habit, results map[int]string, base time.Time) []domain.HabitCheck {
	var checks []domain.HabitCheck
	for offset, result := range results {
		checks = append(checks, domain.HabitCheck{
			Habit:  habit,
			Date:   base.AddDate(0, 0, offset),
			Result: result,
		})
	}
	return checks
}

func TestCalculateStreak(t *testing.T) {
	habit := domain.Habit{Name: "correr", Difficulty: 3}
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		results map[int]string
		refDay  int
		current int
		longest int
	}{
		{
			name:    "no checks",
			results: map[int]string{},
			refDay:  0,
			current: 0,
			longest: 0,
		},
		{
			name:    "two consecutive dones alive",
			results: map[int]string{0: domain.CheckDone, 1: domain.CheckDone},
			refDay:  2,
			current: 2,
			longest: 2,
		},
		{
			name:    "miss kills current but keeps longest",
			results: map[int]string{0: domain.CheckDone, 1: domain.CheckDone, 2: domain.CheckMissed},
			refDay:  2,
			current: 0,
			longest: 2,
		},
		{
			name:    "gap of two days restarts count",
			results: map[int]string{0: domain.CheckDone, 1: domain.CheckDone, 3: domain.CheckDone},
			refDay:  3,
			current: 1,
			longest: 2,
		},
		{
			name:    "stale streak dies without a miss",
			results: map[int]string{0: domain.CheckDone, 1: domain.CheckDone},
			refDay:  5,
			current: 0,
			longest: 2,
		},
		{
			name:    "ref exactly one day after last done keeps it alive",
			results: map[int]string{0: domain.CheckDone, 1: domain.CheckDone, 2: domain.CheckDone},
			refDay:  3,
			current: 3,
			longest: 3,
		},
		{
			name: "recovery after miss",
			results: map[int]string{
				0: domain.CheckDone, 1: domain.CheckDone, 2: domain.CheckMissed,
				3: domain.CheckDone, 4: domain.CheckDone, 5: domain.CheckDone,
			},
			refDay:  5,
			current: 3,
			longest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := habitChecks(habit, tt.results, base)
			ref := base.AddDate(0, 0, tt.refDay)
			got := CalculateStreak(habit, checks, ref)
			if got.Current != tt.current || got.Longest != tt.longest {
				t.Fatalf("streak = current %d longest %d; want %d/%d", got.Current, got.Longest, tt.current, tt.longest)
			}
			if got.Longest < got.Current {
				t.Fatalf("longest %d < current %d", got.Longest, got.Current)
			}
			if got.Current > 0 && got.CurrentStart == nil {
				t.Fatalf("racha viva sin fecha de inicio")
			}
			if got.Current == 0 && got.CurrentStart != nil {
				t.Fatalf("racha muerta con fecha de inicio %v", got.CurrentStart)
			}
		})
	}
}

func TestCalculateStreakIgnoresSameDayDuplicates(t *testing.T) {
	habit := domain.Habit{Name: "leer", Difficulty: 2}
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	checks := []domain.HabitCheck{
		{Habit: habit, Date: base, Result: domain.CheckDone},
		{Habit: habit, Date: base.Add(6 * time.Hour), Result: domain.CheckDone},
		{Habit: habit, Date: base.AddDate(0, 0, 1), Result: domain.CheckDone},
	}
	got := CalculateStreak(habit, checks, base.AddDate(0, 0, 1))
	if got.Current != 2 || got.Longest != 2 {
		t.Fatalf("streak = %d/%d; want 2/2 (el duplicado no suma)", got.Current, got.Longest)
	}
}

func TestCalculateStreakUnsortedInput(t *testing.T) {
	habit := domain.Habit{Name: "meditar", Difficulty: 1}
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	checks := []domain.HabitCheck{
		{Habit: habit, Date: base.AddDate(0, 0, 2), Result: domain.CheckDone},
		{Habit: habit, Date: base, Result: domain.CheckDone},
		{Habit: habit, Date: base.AddDate(0, 0, 1), Result: domain.CheckDone},
	}
	got := CalculateStreak(habit, checks, base.AddDate(0, 0, 2))
	if got.Current != 3 {
		t.Fatalf("current = %d; want 3 con input desordenado", got.Current)
	}
}
