package service

import (
	"fmt"

	"habit-quest/internal/domain"
)

/*
========================
 Evaluación de escenarios
========================
*/

// EvaluateScenarios re-simula cada escenario y lo compara contra la
// simulación base: mejora porcentual de XP del último año, delta del
// índice de habilidad, niveles, tier de burnout e ingreso esperado.
// Re-evaluar el input base sin mutar da 0% de mejora por construcción.
func EvaluateScenarios(baseInput domain.SimulationInput, baseResult domain.SimulationResult, scenarios []domain.GeneratedScenario) []domain.ScenarioImpact {
	baseFinal := baseResult.FinalProjection()

	impacts := make([]domain.ScenarioImpact, 0, len(scenarios))
	for _, scenario := range scenarios {
		result := Simulate(scenario.Input)
		final := result.FinalProjection()

		xpImprovement := 0.0
		if baseFinal.ProjectedXP > 0 {
			xpImprovement = float64(final.ProjectedXP-baseFinal.ProjectedXP) / float64(baseFinal.ProjectedXP) * 100
		} else if final.ProjectedXP > 0 {
			xpImprovement = 100
		}

		impact := domain.ScenarioImpact{
			ScenarioID:       scenario.ID,
			ScenarioName:     scenario.Name,
			XPImprovementPct: xpImprovement,
			SkillGrowthDelta: result.AvgSkillGrowth - baseResult.AvgSkillGrowth,
			LevelDelta:       final.Level - baseFinal.Level,
			IncomeDelta:      result.Income.Expected - baseResult.Income.Expected,
			BaseFinalXP:      baseFinal.ProjectedXP,
			BaseAvgSkill:     baseResult.AvgSkillGrowth,
			BaseBurnoutTier:  baseResult.BurnoutTier,
		}
		if result.BurnoutTier != baseResult.BurnoutTier {
			impact.BurnoutChange = fmt.Sprintf("%s → %s", baseResult.BurnoutTier, result.BurnoutTier)
		}
		impact.Description = describeImpact(scenario, impact)
		impacts = append(impacts, impact)
	}
	return impacts
}

func describeImpact(scenario domain.GeneratedScenario, impact domain.ScenarioImpact) string {
	desc := fmt.Sprintf(
		"'%s': %+.1f%% de XP final, %+.1f de índice de habilidad, %+d nivel(es), %+d USD de ingreso esperado.",
		scenario.Name,
		impact.XPImprovementPct,
		impact.SkillGrowthDelta,
		impact.LevelDelta,
		impact.IncomeDelta,
	)
	if impact.BurnoutChange != "" {
		desc += fmt.Sprintf(" Riesgo de burnout: %s.", impact.BurnoutChange)
	}
	return desc
}
