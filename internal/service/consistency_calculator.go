package service

import (
	"sort"
	"time"

	"habit-quest/internal/domain"
)

// CalculateConsistency puntúa la regularidad de las notas de una meta.
// Mitad del score premia frecuencia (días activos sobre días desde el
// inicio de la meta) y la otra mitad castiga brechas: 50 puntos menos
// 5 por cada día de brecha promedio más allá de lo consecutivo.
// Sin notas el score es 0.
func CalculateConsistency(goal domain.Goal, notes []domain.GoalNote, ref time.Time) domain.Consistency {
	out := domain.Consistency{GoalID: goal.ID}
	if len(notes) == 0 {
		return out
	}

	sorted := make([]domain.GoalNote, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	// Días activos distintos.
	var activeDates []time.Time
	for _, n := range sorted {
		d := toDay(n.Date)
		if len(activeDates) == 0 || !activeDates[len(activeDates)-1].Equal(d) {
			activeDates = append(activeDates, d)
		}
	}
	activeDays := len(activeDates)

	daysSinceStart := daysBetween(goal.StartDate, ref)
	if daysSinceStart < 1 {
		daysSinceStart = 1
	}

	activityScore := 50.0 * float64(activeDays) / float64(daysSinceStart)
	if activityScore > 50 {
		activityScore = 50
	}

	avgGap := 1.0
	if activeDays > 1 {
		span := daysBetween(activeDates[0], activeDates[activeDays-1])
		avgGap = float64(span) / float64(activeDays-1)
	}
	gapScore := 50.0 - 5.0*(avgGap-1.0)
	if gapScore < 0 {
		gapScore = 0
	}
	if gapScore > 50 {
		gapScore = 50
	}

	out.Score = activityScore + gapScore
	out.ActiveDays = activeDays
	out.NoteCount = len(sorted)
	out.AvgGapDays = avgGap
	return out
}
