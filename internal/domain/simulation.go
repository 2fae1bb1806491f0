package domain

// Niveles de riesgo de burnout proyectado.
const (
	RiskTierLow    = "LOW"
	RiskTierMedium = "MEDIUM"
	RiskTierHigh   = "HIGH"
)

// SimulationInput es el snapshot inmutable que alimenta la proyección
// multianual. Se construye agregando los últimos 30 días del ledger;
// "modificarlo" (escenarios) siempre devuelve una copia nueva.
type SimulationInput struct {
	Stats               UserStats      `json:"stats"`
	ConsistencyScore    float64        `json:"consistency_score"`
	AvgDailyEffort      float64        `json:"avg_daily_effort"`
	DifficultyHistogram map[int]int    `json:"difficulty_histogram"`
	Goals               []Goal         `json:"goals"`
	Burnout             BurnoutWarning `json:"burnout"`
	ActiveDaysLast30    int            `json:"active_days_last_30"`
	AvgStreakLength     float64        `json:"avg_streak_length"`
	Years               int            `json:"years"`
}

// Clone devuelve una copia profunda del input, lista para mutar en un
// escenario sin tocar el original.
func (in SimulationInput) Clone() SimulationInput {
	out := in
	out.DifficultyHistogram = make(map[int]int, len(in.DifficultyHistogram))
	for d, n := range in.DifficultyHistogram {
		out.DifficultyHistogram[d] = n
	}
	out.Goals = make([]Goal, len(in.Goals))
	copy(out.Goals, in.Goals)
	out.Burnout.Factors = append([]string(nil), in.Burnout.Factors...)
	return out
}

// HabitCount suma el histograma de dificultades.
func (in SimulationInput) HabitCount() int {
	total := 0
	for _, n := range in.DifficultyHistogram {
		total += n
	}
	return total
}

// YearlyProjection es la proyección de un año simulado.
// GrowthRate es el XP anual como porcentaje del año anterior (o del
// año base para el primer año).
type YearlyProjection struct {
	Year        int     `json:"year"`
	ProjectedXP int     `json:"projected_xp"`
	Level       int     `json:"level"`
	SkillGrowth float64 `json:"skill_growth"`
	GrowthRate  float64 `json:"growth_rate"`
}

// IncomeRange es la banda de ingreso anual estimado en USD.
type IncomeRange struct {
	Low      int `json:"low"`
	Expected int `json:"expected"`
	High     int `json:"high"`
}

// SimulationResult agrupa las proyecciones anuales en orden más los
// derivados post-simulación.
type SimulationResult struct {
	Projections    []YearlyProjection `json:"projections"`
	AvgSkillGrowth float64            `json:"avg_skill_growth"`
	BurnoutTier    string             `json:"burnout_tier"`
	Income         IncomeRange        `json:"income"`
	EmigrationProb int                `json:"emigration_prob"`
	Explanation    string             `json:"explanation"`
}

// FinalProjection devuelve la proyección del último año simulado.
func (r SimulationResult) FinalProjection() YearlyProjection {
	if len(r.Projections) == 0 {
		return YearlyProjection{}
	}
	return r.Projections[len(r.Projections)-1]
}
