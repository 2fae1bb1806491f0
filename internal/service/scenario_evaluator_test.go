package service

import (
	"math"
	"testing"

	"habit-quest/internal/domain"
)

func TestEvaluateScenariosIdentityScenarioIsNeutral(t *testing.T) {
	input := healthyInput(3)
	base := Simulate(input)

	// Un escenario cuyo input es el base sin mutar debe dar impacto nulo.
	scenarios := []domain.GeneratedScenario{
		{ID: "s1", Name: "Sin cambios", Input: input.Clone()},
	}
	impacts := EvaluateScenarios(input, base, scenarios)
	if len(impacts) != 1 {
		t.Fatalf("impactos = %d; want 1", len(impacts))
	}

	impact := impacts[0]
	if math.Abs(impact.XPImprovementPct) > 1e-9 {
		t.Fatalf("XPImprovementPct = %v; want 0", impact.XPImprovementPct)
	}
	if math.Abs(impact.SkillGrowthDelta) > 1e-9 {
		t.Fatalf("SkillGrowthDelta = %v; want 0", impact.SkillGrowthDelta)
	}
	if impact.LevelDelta != 0 || impact.IncomeDelta != 0 {
		t.Fatalf("deltas = nivel %d ingreso %d; want 0/0", impact.LevelDelta, impact.IncomeDelta)
	}
	if impact.BurnoutChange != "" {
		t.Fatalf("BurnoutChange = %q; want vacío sin cambio de tier", impact.BurnoutChange)
	}
}

func TestEvaluateScenariosImprovedScenario(t *testing.T) {
	input := healthyInput(3)
	input.ConsistencyScore = 40
	base := Simulate(input)

	better := input.Clone()
	better.ConsistencyScore = 90
	scenarios := []domain.GeneratedScenario{
		{ID: "s1", Name: "Más consistencia", Input: better},
	}

	impacts := EvaluateScenarios(input, base, scenarios)
	impact := impacts[0]
	if impact.XPImprovementPct <= 0 {
		t.Fatalf("XPImprovementPct = %v; want > 0 con más consistencia", impact.XPImprovementPct)
	}
	if impact.SkillGrowthDelta <= 0 {
		t.Fatalf("SkillGrowthDelta = %v; want > 0", impact.SkillGrowthDelta)
	}
	if impact.Description == "" {
		t.Fatalf("Description vacía")
	}
	if impact.BaseFinalXP != base.FinalProjection().ProjectedXP {
		t.Fatalf("BaseFinalXP = %d; want %d", impact.BaseFinalXP, base.FinalProjection().ProjectedXP)
	}
	if impact.BaseBurnoutTier != base.BurnoutTier {
		t.Fatalf("BaseBurnoutTier = %q; want %q", impact.BaseBurnoutTier, base.BurnoutTier)
	}
}

func TestEvaluateScenariosRecordsBurnoutChange(t *testing.T) {
	input := healthyInput(3)
	input.Burnout = domain.BurnoutWarning{Active: true, Severity: 80}
	base := Simulate(input)
	if base.BurnoutTier != domain.RiskTierHigh {
		t.Fatalf("precondición: tier base = %q; want HIGH", base.BurnoutTier)
	}

	calmed := input.Clone()
	calmed.Burnout = domain.BurnoutWarning{}
	impacts := EvaluateScenarios(input, base, []domain.GeneratedScenario{
		{ID: "s1", Name: "Bajar el ritmo", Input: calmed},
	})

	if impacts[0].BurnoutChange == "" {
		t.Fatalf("BurnoutChange vacío; el tier debía mejorar al apagar el warning")
	}
}
