package service

import (
	"time"

	"habit-quest/internal/domain"
)

/*
========================
 Detección de burnout
========================
*/

// Contribuciones independientes de cada factor de riesgo.
const (
	burnoutWeightDecline     = 30
	burnoutWeightRecentDecay = 25
	burnoutWeightCapHits     = 20
	burnoutWeightCombined    = 25

	burnoutActiveThreshold = 30
	burnoutCapHitRatio     = 0.70
	burnoutDecayLookback   = 7
	burnoutCapLookback     = 14
)

// DetectBurnout suma factores de riesgo independientes sobre la historia
// reciente: tendencia en declive, pérdidas por decaimiento en la última
// semana, saturación frecuente del tope diario, y la combinación de
// declive con tope saturado. El warning se activa desde severidad 30.
func DetectBurnout(txs []domain.XPTransaction, logs []domain.DailyActivityLog, ref time.Time, dailyCap int) domain.BurnoutWarning {
	var warning domain.BurnoutWarning
	if dailyCap <= 0 {
		dailyCap = DefaultLedgerConfig().DailyXPCap
	}
	refDay := toDay(ref)

	trend := AnalyzeTrend(txs, ref, DefaultTrendWindowDays)
	if trend == domain.TrendDeclining {
		warning.Severity += burnoutWeightDecline
		warning.Factors = append(warning.Factors, "Tendencia de XP en declive sostenido")
	}

	decayStart := refDay.AddDate(0, 0, -burnoutDecayLookback)
	for _, tx := range txs {
		d := toDay(tx.CreatedAt)
		if tx.Source == domain.TxSourceDecay && tx.Amount < 0 && !d.Before(decayStart) && !d.After(refDay) {
			warning.Severity += burnoutWeightRecentDecay
			warning.Factors = append(warning.Factors, "Pérdida de XP por inactividad en la última semana")
			break
		}
	}

	capStart := refDay.AddDate(0, 0, -burnoutCapLookback)
	activeDays := 0
	cappedDays := 0
	for _, log := range logs {
		d := toDay(log.Date)
		if d.Before(capStart) || d.After(refDay) {
			continue
		}
		activeDays++
		if log.XPGained >= dailyCap {
			cappedDays++
		}
	}
	if activeDays > 0 && float64(cappedDays)/float64(activeDays) >= burnoutCapHitRatio {
		warning.Severity += burnoutWeightCapHits
		warning.Factors = append(warning.Factors, "Tope diario de XP saturado en la mayoría de los días activos")
	}

	// Señal combinada: declive junto con tope saturado más de la mitad
	// de los días de la ventana.
	if trend == domain.TrendDeclining && cappedDays*2 > burnoutCapLookback {
		warning.Severity += burnoutWeightCombined
		warning.Factors = append(warning.Factors, "Declive con esfuerzo al tope: ritmo insostenible")
	}

	if warning.Severity > 100 {
		warning.Severity = 100
	}
	warning.Active = warning.Severity >= burnoutActiveThreshold
	return warning
}
