package service

import (
	"testing"

	"habit-quest/internal/domain"
)

func healthyInput(years int) domain.SimulationInput {
	return domain.SimulationInput{
		Stats:            domain.UserStats{TotalXP: 500, Level: LevelForXP(500)},
		ConsistencyScore: 70,
		AvgDailyEffort:   50,
		DifficultyHistogram: map[int]int{
			2: 1,
			3: 2,
		},
		Goals: []domain.Goal{
			{ID: "g1", Title: "Meta", Importance: 3, TotalPoints: 100},
		},
		ActiveDaysLast30: 24,
		AvgStreakLength:  8,
		Years:            years,
	}
}

func TestSimulateClampsYears(t *testing.T) {
	tests := []struct {
		years int
		want  int
	}{
		{years: 0, want: 1},
		{years: -4, want: 1},
		{years: 3, want: 3},
		{years: 10, want: 5},
	}
	for _, tt := range tests {
		result := Simulate(healthyInput(tt.years))
		if len(result.Projections) != tt.want {
			t.Fatalf("years=%d produjo %d proyecciones; want %d", tt.years, len(result.Projections), tt.want)
		}
	}
}

func TestSimulateHealthyTrajectory(t *testing.T) {
	result := Simulate(healthyInput(3))

	for i, p := range result.Projections {
		if p.Year != i+1 {
			t.Fatalf("proyección %d con Year=%d", i, p.Year)
		}
		if p.ProjectedXP <= 0 {
			t.Fatalf("año %d con XP proyectado %d", p.Year, p.ProjectedXP)
		}
		if p.SkillGrowth < 0 || p.SkillGrowth > 100 {
			t.Fatalf("año %d con SkillGrowth fuera de rango: %v", p.Year, p.SkillGrowth)
		}
	}

	// Rendimiento decreciente sin burnout: cada año rinde el 85% del anterior.
	for _, p := range result.Projections {
		if p.GrowthRate < 84.9 || p.GrowthRate > 85.1 {
			t.Fatalf("año %d GrowthRate = %v; want 85 con rendimiento decreciente puro", p.Year, p.GrowthRate)
		}
	}
	for i := 1; i < len(result.Projections); i++ {
		if result.Projections[i].ProjectedXP >= result.Projections[i-1].ProjectedXP {
			t.Fatalf("el XP anual debe decrecer: año %d >= año %d", i+1, i)
		}
	}

	if result.BurnoutTier != domain.RiskTierLow {
		t.Fatalf("BurnoutTier = %q; want LOW en trayectoria sana", result.BurnoutTier)
	}
	if result.Income.Low >= result.Income.Expected || result.Income.Expected >= result.Income.High {
		t.Fatalf("bandas de ingreso mal ordenadas: %+v", result.Income)
	}
	if result.EmigrationProb < 0 || result.EmigrationProb > 100 {
		t.Fatalf("EmigrationProb fuera de rango: %d", result.EmigrationProb)
	}
	if result.Explanation == "" {
		t.Fatalf("Explanation vacía")
	}
}

func TestSimulateConsistencyMonotonicity(t *testing.T) {
	low := healthyInput(3)
	low.ConsistencyScore = 45

	high := healthyInput(3)
	high.ConsistencyScore = 95

	lowXP := Simulate(low).FinalProjection().ProjectedXP
	highXP := Simulate(high).FinalProjection().ProjectedXP
	if highXP <= lowXP {
		t.Fatalf("más consistencia debe proyectar más XP: %d <= %d", highXP, lowXP)
	}
}

func TestSimulateBurnoutGate(t *testing.T) {
	healthy := Simulate(healthyInput(3))

	burned := healthyInput(3)
	burned.Burnout = domain.BurnoutWarning{Active: true, Severity: 80}
	result := Simulate(burned)

	if result.FinalProjection().ProjectedXP >= healthy.FinalProjection().ProjectedXP {
		t.Fatalf("el burnout activo debe recortar la proyección: %d >= %d",
			result.FinalProjection().ProjectedXP, healthy.FinalProjection().ProjectedXP)
	}
	if result.BurnoutTier != domain.RiskTierHigh {
		t.Fatalf("BurnoutTier = %q; want HIGH con warning activo", result.BurnoutTier)
	}
}

func TestSimulateRiskyLoadRaisesTier(t *testing.T) {
	input := healthyInput(4)
	input.ConsistencyScore = 30
	input.AvgDailyEffort = 200
	input.DifficultyHistogram = map[int]int{5: 4}

	result := Simulate(input)
	if result.BurnoutTier == domain.RiskTierLow {
		t.Fatalf("BurnoutTier = LOW con carga insostenible; want MEDIUM o HIGH")
	}
}

func TestSimulateDegenerateInput(t *testing.T) {
	// Input vacío: no debe entrar en pánico ni dividir por cero.
	result := Simulate(domain.SimulationInput{Years: 2})
	if len(result.Projections) != 2 {
		t.Fatalf("proyecciones = %d; want 2", len(result.Projections))
	}
	for _, p := range result.Projections {
		if p.ProjectedXP != 0 {
			t.Fatalf("sin esfuerzo no hay XP; año %d proyectó %d", p.Year, p.ProjectedXP)
		}
	}
	if result.Income.Expected <= 0 {
		t.Fatalf("el ingreso parte del nivel 1, no puede ser %d", result.Income.Expected)
	}
}

func TestSimulateDoesNotMutateInput(t *testing.T) {
	input := healthyInput(3)
	input.ConsistencyScore = 150 // fuera de rango a propósito

	Simulate(input)
	if input.ConsistencyScore != 150 {
		t.Fatalf("Simulate mutó el input: ConsistencyScore = %v", input.ConsistencyScore)
	}
	if input.DifficultyHistogram[2] != 1 || input.DifficultyHistogram[3] != 2 {
		t.Fatalf("Simulate mutó el histograma: %v", input.DifficultyHistogram)
	}
}
