package service

import (
	"time"

	"habit-quest/internal/domain"
)

// Ventana por defecto del análisis de tendencia, en días.
const DefaultTrendWindowDays = 14

// AnalyzeTrend parte la ventana en dos mitades, agrupa los cambios de XP
// por día y compara los promedios. La segunda mitad tiene que moverse más
// de un 10% del promedio de la primera para salir de STABLE. Con menos de
// tres días con datos la respuesta es STABLE por defecto.
func AnalyzeTrend(txs []domain.XPTransaction, ref time.Time, windowDays int) string {
	if windowDays <= 0 {
		windowDays = DefaultTrendWindowDays
	}

	refDay := toDay(ref)
	windowStart := refDay.AddDate(0, 0, -windowDays)
	midpoint := refDay.AddDate(0, 0, -windowDays/2)

	firstHalf := make(map[time.Time]int)
	secondHalf := make(map[time.Time]int)
	for _, tx := range txs {
		d := toDay(tx.CreatedAt)
		if d.Before(windowStart) || d.After(refDay) {
			continue
		}
		if d.Before(midpoint) {
			firstHalf[d] += tx.Amount
		} else {
			secondHalf[d] += tx.Amount
		}
	}

	if len(firstHalf)+len(secondHalf) < 3 {
		return domain.TrendStable
	}

	firstAvg := dailyAverage(firstHalf)
	secondAvg := dailyAverage(secondHalf)

	threshold := firstAvg * 0.10
	if threshold < 0 {
		threshold = -threshold
	}
	switch {
	case secondAvg > firstAvg+threshold:
		return domain.TrendImproving
	case secondAvg < firstAvg-threshold:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func dailyAverage(buckets map[time.Time]int) float64 {
	if len(buckets) == 0 {
		return 0
	}
	total := 0
	for _, v := range buckets {
		total += v
	}
	return float64(total) / float64(len(buckets))
}
