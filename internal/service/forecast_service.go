package service

import (
	"fmt"
	"math"

	"habit-quest/internal/domain"
)

/*
========================
 Proyección multianual
========================
*/

const (
	minSimulationYears = 1
	maxSimulationYears = 5

	// Rendimiento decreciente año a año.
	yearlyDiminishingFactor = 0.85
	// Penalización de XP cuando el burnout se dispara en un año.
	burnoutXPPenalty = 0.60
	// Riesgo anual a partir del cual el burnout se dispara.
	burnoutRiskTrigger = 0.60

	incomePerLevel = 30000
)

// Simulate proyecta la trayectoria del usuario año a año. Nunca falla con
// input válido: los valores degenerados se acotan a defaults neutros.
func Simulate(input domain.SimulationInput) domain.SimulationResult {
	input = sanitizeInput(input)

	baseYearly := baseYearlyXP(input)
	goalCount := len(input.Goals)

	var (
		projections []domain.YearlyProjection
		runningXP   = input.Stats.TotalXP
		prevYearly  = baseYearly
		burnedOut   = input.Burnout.Active
		finalRisk   float64
		skillTotal  float64
		factor      = 1.0
	)

	for year := 1; year <= input.Years; year++ {
		factor *= yearlyDiminishingFactor
		yearlyXP := baseYearly * factor

		risk := yearlyBurnoutRisk(input, year)
		finalRisk = risk
		if burnedOut || risk > burnoutRiskTrigger {
			yearlyXP *= burnoutXPPenalty
			burnedOut = true
		}

		runningXP += int(yearlyXP)
		skill := skillGrowthIndex(yearlyXP, input.ConsistencyScore, goalCount)
		skillTotal += skill

		growthRate := 0.0
		if prevYearly > 0 {
			growthRate = yearlyXP / prevYearly * 100
		}
		prevYearly = yearlyXP

		projections = append(projections, domain.YearlyProjection{
			Year:        year,
			ProjectedXP: int(yearlyXP),
			Level:       LevelForXP(runningXP),
			SkillGrowth: skill,
			GrowthRate:  growthRate,
		})
	}

	avgSkill := skillTotal / float64(len(projections))
	tier := burnoutTier(finalRisk, input.Burnout.Active, projections)
	income := incomeRange(projections[len(projections)-1].Level, avgSkill)
	emigration := emigrationProbability(avgSkill, income.Expected, input.ConsistencyScore)

	return domain.SimulationResult{
		Projections:    projections,
		AvgSkillGrowth: avgSkill,
		BurnoutTier:    tier,
		Income:         income,
		EmigrationProb: emigration,
		Explanation:    explain(projections, tier, income, input.Years),
	}
}

// sanitizeInput acota el snapshot a rangos válidos sin fallar.
func sanitizeInput(in domain.SimulationInput) domain.SimulationInput {
	out := in.Clone()
	if out.Years < minSimulationYears {
		out.Years = minSimulationYears
	}
	if out.Years > maxSimulationYears {
		out.Years = maxSimulationYears
	}
	out.ConsistencyScore = clamp(out.ConsistencyScore, 0, 100)
	if out.AvgDailyEffort < 0 {
		out.AvgDailyEffort = 0
	}
	if out.ActiveDaysLast30 < 0 {
		out.ActiveDaysLast30 = 0
	}
	if out.ActiveDaysLast30 > 30 {
		out.ActiveDaysLast30 = 30
	}
	if out.AvgStreakLength < 0 {
		out.AvgStreakLength = 0
	}
	if out.Stats.Level < 1 {
		out.Stats.Level = 1
	}
	return out
}

// baseYearlyXP aplica la fórmula base: esfuerzo diario por los
// multiplicadores de consistencia, dificultad, racha y metas, escalado
// por los días activos proyectados del año.
func baseYearlyXP(in domain.SimulationInput) float64 {
	consistencyMult := 0.5 + in.ConsistencyScore/100*0.7

	wad := weightedAvgDifficulty(in.DifficultyHistogram)
	difficultyBonus := math.Max(0, (wad-2)/3) * 0.15

	streakBonus := math.Min(in.AvgStreakLength/30, 0.3)

	goalBonus := 0.0
	if len(in.Goals) > 0 {
		goalBonus = math.Min(float64(len(in.Goals))/10, 0.05)
		goalBonus += (avgImportance(in.Goals) - 1) / 4 * 0.05
	}

	activeDaysPerYear := 365 * math.Min(float64(in.ActiveDaysLast30)/30, 1) * 0.85

	return in.AvgDailyEffort * consistencyMult *
		(1 + difficultyBonus) * (1 + streakBonus) * (1 + goalBonus) *
		activeDaysPerYear
}

// yearlyBurnoutRisk re-deriva el riesgo por año con umbrales estáticos
// sobre el mismo snapshot, más 0.1 por año transcurrido. El snapshot no
// evoluciona entre años a propósito.
func yearlyBurnoutRisk(in domain.SimulationInput, year int) float64 {
	risk := 0.0
	if in.ConsistencyScore < 40 {
		risk += 0.2
	}
	if in.AvgDailyEffort > 150 {
		risk += 0.2
	}
	if in.DifficultyHistogram[4]+in.DifficultyHistogram[5] > 3 {
		risk += 0.2
	}
	if in.Burnout.Active {
		risk += 0.3
	}
	risk += 0.1 * float64(year)
	return risk
}

// skillGrowthIndex proyecta el índice de crecimiento de habilidad 0-100.
func skillGrowthIndex(yearlyXP, consistency float64, goalCount int) float64 {
	return math.Min(yearlyXP/50, 50) +
		consistency/100*30 +
		math.Min(float64(goalCount)*5, 20)
}

// burnoutTier clasifica el riesgo final. Además del umbral sobre el riesgo
// del último año, una caída de más de 10 puntos en la tasa de crecimiento
// año contra año también fuerza HIGH.
func burnoutTier(finalRisk float64, warningActive bool, projections []domain.YearlyProjection) string {
	if warningActive {
		finalRisk += 0.2
	}
	for i := 1; i < len(projections); i++ {
		if projections[i-1].GrowthRate-projections[i].GrowthRate > 10 {
			return domain.RiskTierHigh
		}
	}
	switch {
	case finalRisk > 0.7:
		return domain.RiskTierHigh
	case finalRisk > 0.4:
		return domain.RiskTierMedium
	default:
		return domain.RiskTierLow
	}
}

// incomeRange estima la banda de ingreso desde el nivel final y el índice
// de habilidad: base nivel x 30000, multiplicador [0.8, 1.5], bandas al
// 80% y 130% del esperado.
func incomeRange(finalLevel int, avgSkill float64) domain.IncomeRange {
	skillMult := 0.8 + clamp(avgSkill, 0, 100)/100*0.7
	expected := float64(finalLevel*incomePerLevel) * skillMult
	return domain.IncomeRange{
		Low:      int(expected * 0.8),
		Expected: int(expected),
		High:     int(expected * 1.3),
	}
}

// emigrationProbability suma un término de habilidad (hasta 40), uno de
// ingreso sobre los 80k (hasta 30) y uno de consistencia (hasta 20).
func emigrationProbability(avgSkill float64, expectedIncome int, consistency float64) int {
	prob := clamp(avgSkill, 0, 100) / 100 * 40
	if expectedIncome > 80000 {
		prob += math.Min(30, float64(expectedIncome-80000)/4000)
	}
	prob += clamp(consistency, 0, 100) / 100 * 20
	if prob > 100 {
		prob = 100
	}
	return int(prob)
}

func explain(projections []domain.YearlyProjection, tier string, income domain.IncomeRange, years int) string {
	final := projections[len(projections)-1]
	return fmt.Sprintf(
		"En %d años proyectamos nivel %d con %d XP anuales al final del período. Riesgo de burnout %s, ingreso esperado de %d USD.",
		years, final.Level, final.ProjectedXP, tier, income.Expected,
	)
}

func weightedAvgDifficulty(hist map[int]int) float64 {
	total := 0
	weighted := 0
	for difficulty, count := range hist {
		total += count
		weighted += difficulty * count
	}
	if total == 0 {
		return 0
	}
	return float64(weighted) / float64(total)
}

func avgImportance(goals []domain.Goal) float64 {
	if len(goals) == 0 {
		return 1
	}
	total := 0
	for _, g := range goals {
		total += g.Importance
	}
	return float64(total) / float64(len(goals))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
