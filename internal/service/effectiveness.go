package service

import (
	"math"

	"habit-quest/internal/domain"
)

/*
========================
 Efectividad post-hoc
========================
*/

// EvaluateEffectiveness mide qué tan bien se cumplió la predicción de un
// escenario que el usuario siguió: compara la mejora de XP y de habilidad
// predichas contra lo efectivamente observado. El score pondera 60% el
// acierto en XP y 40% el de habilidad; cada componente vale
// 100 - |predicho - observado| acotado a [0,100].
func EvaluateEffectiveness(expected domain.ScenarioImpact, actual domain.SimulationResult) domain.EffectivenessEvaluation {
	actualFinal := actual.FinalProjection()

	actualXPImprovement := 0.0
	if expected.BaseFinalXP > 0 {
		actualXPImprovement = float64(actualFinal.ProjectedXP-expected.BaseFinalXP) / float64(expected.BaseFinalXP) * 100
	} else if actualFinal.ProjectedXP > 0 {
		actualXPImprovement = 100
	}
	actualSkillDelta := actual.AvgSkillGrowth - expected.BaseAvgSkill

	xpDeviation := actualXPImprovement - expected.XPImprovementPct
	skillDeviation := actualSkillDelta - expected.SkillGrowthDelta

	xpScore := clamp(100-math.Abs(xpDeviation), 0, 100)
	skillScore := clamp(100-math.Abs(skillDeviation), 0, 100)
	score := 0.6*xpScore + 0.4*skillScore

	// La desviación dominante decide la severidad; la de habilidad pesa
	// x10 para quedar en la misma escala porcentual.
	dominant := math.Max(math.Abs(xpDeviation), math.Abs(skillDeviation)*10)
	severity := deviationSeverity(dominant)

	eval := domain.EffectivenessEvaluation{
		Score:          score,
		XPDeviation:    xpDeviation,
		SkillDeviation: skillDeviation,
		Severity:       severity,
	}
	eval.Signals = learningSignals(eval, expected, actual)
	return eval
}

func deviationSeverity(deviation float64) string {
	switch {
	case deviation < 5:
		return domain.DeviationMinimal
	case deviation < 15:
		return domain.DeviationLow
	case deviation < 30:
		return domain.DeviationModerate
	case deviation < 50:
		return domain.DeviationHigh
	default:
		return domain.DeviationCritical
	}
}

// learningSignals emite las lecturas cualitativas sobre el modelo de
// recomendación a partir del veredicto.
func learningSignals(eval domain.EffectivenessEvaluation, expected domain.ScenarioImpact, actual domain.SimulationResult) []string {
	var signals []string
	severe := eval.Severity == domain.DeviationHigh || eval.Severity == domain.DeviationCritical

	// Quedó muy por debajo de lo prometido: recomendación sobreoptimista
	// o el usuario no la siguió de verdad.
	if eval.XPDeviation < 0 && severe {
		signals = append(signals, domain.SignalOverOptimistic)
	}

	// El modelo asumió algo que no pasó: efectividad baja en general, o
	// un cambio de burnout prometido que no ocurrió.
	if eval.Score < 40 {
		signals = append(signals, domain.SignalModelAssumption)
	} else if expected.BurnoutChange != "" && actual.BurnoutTier == expected.BaseBurnoutTier {
		signals = append(signals, domain.SignalModelAssumption)
	}

	// Superó la predicción por mucho y aun así el acierto global es
	// razonable: fuimos conservadores.
	if eval.XPDeviation >= 15 && eval.Score >= 60 {
		signals = append(signals, domain.SignalConservative)
	}

	// Desviación moderada con efectividad media: probablemente factores
	// externos que el modelo no ve.
	if eval.Severity == domain.DeviationModerate && eval.Score >= 40 && eval.Score <= 70 {
		signals = append(signals, domain.SignalExternalFactors)
	}
	return signals
}
