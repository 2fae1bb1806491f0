package service

import (
	"sort"
	"time"

	"habit-quest/internal/domain"
)

// CalculateStreak recorre los checks de un hábito y deriva la racha actual
// y la más larga. Un DONE extiende la racha solo si el DONE anterior fue
// exactamente un día antes; cualquier brecha mayor o un MISSED la corta.
// La racha actual muere además si el último check es MISSED o si pasó más
// de un día entre el último check y la fecha de referencia: hay que seguir
// marcando para mantenerla viva.
func CalculateStreak(habit domain.Habit, checks []domain.HabitCheck, ref time.Time) domain.Streak {
	streak := domain.Streak{Habit: habit}
	if len(checks) == 0 {
		return streak
	}

	sorted := make([]domain.HabitCheck, len(checks))
	copy(sorted, checks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var (
		current  int
		longest  int
		start    *time.Time
		lastDone time.Time
		haveDone bool
	)

	for _, check := range sorted {
		if check.Result == domain.CheckMissed {
			if current > longest {
				longest = current
			}
			current = 0
			start = nil
			continue
		}

		if haveDone {
			switch daysBetween(lastDone, check.Date) {
			case 0:
				// Duplicado del mismo día: no suma ni corta.
				continue
			case 1:
				current++
			default:
				if current > longest {
					longest = current
				}
				current = 1
				d := toDay(check.Date)
				start = &d
			}
		} else {
			current = 1
			d := toDay(check.Date)
			start = &d
		}
		lastDone = check.Date
		haveDone = true
	}

	// La racha solo sigue viva si el último check fue DONE y reciente.
	last := sorted[len(sorted)-1]
	if last.Result == domain.CheckMissed || daysBetween(last.Date, ref) > 1 {
		if current > longest {
			longest = current
		}
		current = 0
		start = nil
	}

	if current > longest {
		longest = current
	}
	streak.Current = current
	streak.Longest = longest
	streak.CurrentStart = start
	return streak
}
