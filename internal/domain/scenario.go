package domain

// Tipos cerrados de recomendación. Cada tipo tiene una mutación pura y
// determinista del SimulationInput asociada en el generador de escenarios.
const (
	RecReduceBurnout      = "REDUCE_BURNOUT"
	RecImproveConsistency = "IMPROVE_CONSISTENCY"
	RecAddGoalFocus       = "ADD_GOAL_FOCUS"
	RecAdjustDifficulty   = "ADJUST_DIFFICULTY"
	RecAddHabits          = "ADD_HABITS"
	RecBalanceEffort      = "BALANCE_EFFORT"
	RecOptimize           = "OPTIMIZE"
)

// Recommendation es un consejo priorizado derivado de una simulación.
// Priority 1 es la máxima.
type Recommendation struct {
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Reason   string `json:"reason"`
}

// GeneratedScenario es un "qué pasaría si": un SimulationInput mutado
// según una o más recomendaciones, con su justificación y el detalle
// textual de cada parámetro ajustado.
type GeneratedScenario struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Input           SimulationInput   `json:"input"`
	Recommendations []string          `json:"recommendations"`
	Rationale       string            `json:"rationale"`
	Adjustments     map[string]string `json:"adjustments"`
}

// ScenarioImpact compara la re-simulación de un escenario contra la base.
// Los campos Base* quedan registrados para poder evaluar efectividad
// a posteriori contra resultados reales.
type ScenarioImpact struct {
	ScenarioID       string  `json:"scenario_id"`
	ScenarioName     string  `json:"scenario_name"`
	XPImprovementPct float64 `json:"xp_improvement_pct"`
	SkillGrowthDelta float64 `json:"skill_growth_delta"`
	LevelDelta       int     `json:"level_delta"`
	BurnoutChange    string  `json:"burnout_change,omitempty"`
	IncomeDelta      int     `json:"income_delta"`
	Description      string  `json:"description"`
	BaseFinalXP      int     `json:"base_final_xp"`
	BaseAvgSkill     float64 `json:"base_avg_skill"`
	BaseBurnoutTier  string  `json:"base_burnout_tier"`
}

// Severidad de la desviación entre impacto predicho y observado.
const (
	DeviationMinimal  = "MINIMAL"
	DeviationLow      = "LOW"
	DeviationModerate = "MODERATE"
	DeviationHigh     = "HIGH"
	DeviationCritical = "CRITICAL"
)

// Señales cualitativas de aprendizaje sobre el modelo de recomendación.
const (
	SignalOverOptimistic  = "OVER_OPTIMISTIC_OR_LOW_COMPLIANCE"
	SignalModelAssumption = "INCORRECT_MODEL_ASSUMPTION"
	SignalConservative    = "RECOMMENDATION_WAS_CONSERVATIVE"
	SignalExternalFactors = "EXTERNAL_FACTORS_INFLUENCE"
)

// EffectivenessEvaluation es el veredicto post-hoc: qué tan bien se
// cumplió la predicción de un escenario que el usuario siguió.
type EffectivenessEvaluation struct {
	Score          float64  `json:"score"`
	XPDeviation    float64  `json:"xp_deviation"`
	SkillDeviation float64  `json:"skill_deviation"`
	Severity       string   `json:"severity"`
	Signals        []string `json:"signals,omitempty"`
}
