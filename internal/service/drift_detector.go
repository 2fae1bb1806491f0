package service

import (
	"math"

	"habit-quest/internal/domain"
)

/*
========================
 Deriva de comportamiento
========================
*/

const (
	driftMinDaysApart = 14
	// Piso de ruido: cambios menores a 10% / 10 puntos no son deriva.
	driftNoiseFloor = 10.0
	// Burnout domina la clasificación desde 15 puntos de subida.
	driftBurnoutDelta = 15.0
)

// DetectDrift compara dos snapshots de comportamiento separados al menos
// dos semanas y clasifica la deriva. Prioridad: BURNOUT, luego mejora o
// declive francos, luego estancamiento; como último recurso decide el
// signo del movimiento combinado de XP y tasa de completitud.
// ok=false cuando los snapshots están muy cerca o todo quedó bajo el
// piso de ruido.
func DetectDrift(prev, curr domain.BehaviorSnapshot) (domain.BehaviorDrift, bool) {
	if daysBetween(prev.TakenAt, curr.TakenAt) < driftMinDaysApart {
		return domain.BehaviorDrift{}, false
	}

	drift := domain.BehaviorDrift{
		XPChangePct:     pctChange(prev.AvgDailyXP, curr.AvgDailyXP),
		CompletionDelta: curr.CompletionRate - prev.CompletionRate,
		StabilityDelta:  curr.StreakStability - prev.StreakStability,
		BurnoutDelta:    curr.BurnoutRisk - prev.BurnoutRisk,
		GoalCountDelta:  curr.ActiveGoals - prev.ActiveGoals,
		EngagementDelta: curr.GoalEngagement - prev.GoalEngagement,
	}

	changes := []float64{
		drift.XPChangePct,
		drift.CompletionDelta,
		drift.StabilityDelta,
		drift.BurnoutDelta,
		float64(drift.GoalCountDelta),
		drift.EngagementDelta,
	}
	maxAbs := 0.0
	anyAboveFloor := false
	for _, c := range changes {
		abs := math.Abs(c)
		if abs > maxAbs {
			maxAbs = abs
		}
		if abs >= driftNoiseFloor {
			anyAboveFloor = true
		}
	}
	if !anyAboveFloor {
		return domain.BehaviorDrift{}, false
	}

	switch {
	case drift.BurnoutDelta >= driftBurnoutDelta && drift.BurnoutDelta >= math.Abs(drift.XPChangePct):
		drift.Type = domain.DriftBurnout
	case drift.XPChangePct >= driftNoiseFloor && drift.CompletionDelta >= driftNoiseFloor:
		drift.Type = domain.DriftImprovement
	case drift.XPChangePct <= -driftNoiseFloor && drift.CompletionDelta <= -driftNoiseFloor:
		drift.Type = domain.DriftDecline
	case maxAbs < 1.5*driftNoiseFloor:
		drift.Type = domain.DriftStagnation
	case drift.XPChangePct+drift.CompletionDelta >= 0:
		drift.Type = domain.DriftImprovement
	default:
		drift.Type = domain.DriftDecline
	}

	switch {
	case maxAbs >= 30:
		drift.Severity = domain.DriftSeverityHigh
	case maxAbs >= 15:
		drift.Severity = domain.DriftSeverityMedium
	default:
		drift.Severity = domain.DriftSeverityLow
	}
	return drift, true
}

// pctChange devuelve el cambio porcentual de a hacia b.
// Con base cero: 0 si b también es cero, 100 si hay cualquier subida.
func pctChange(a, b float64) float64 {
	if a == 0 {
		if b == 0 {
			return 0
		}
		if b > 0 {
			return 100
		}
		return -100
	}
	return (b - a) / math.Abs(a) * 100
}
