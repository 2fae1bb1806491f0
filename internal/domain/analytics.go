package domain

import "time"

// Tendencia de XP sobre la ventana de análisis.
const (
	TrendImproving = "IMPROVING"
	TrendStable    = "STABLE"
	TrendDeclining = "DECLINING"
)

// BurnoutWarning acumula factores de riesgo independientes.
// Severity está acotado a [0,100]; Active se enciende desde 30.
type BurnoutWarning struct {
	Active   bool     `json:"active"`
	Factors  []string `json:"factors,omitempty"`
	Severity int      `json:"severity"`
}

// BehaviorSnapshot es un agregado puntual del comportamiento del usuario.
// Todos los campos porcentuales viven en [0,100]; AvgDailyXP no está acotado.
type BehaviorSnapshot struct {
	TakenAt         time.Time `json:"taken_at"`
	AvgDailyXP      float64   `json:"avg_daily_xp"`
	CompletionRate  float64   `json:"completion_rate"`
	StreakStability float64   `json:"streak_stability"`
	BurnoutRisk     float64   `json:"burnout_risk"`
	ActiveGoals     int       `json:"active_goals"`
	GoalEngagement  float64   `json:"goal_engagement"`
}

// Clasificación de deriva de comportamiento entre dos snapshots.
const (
	DriftImprovement = "IMPROVEMENT"
	DriftDecline     = "DECLINE"
	DriftStagnation  = "STAGNATION"
	DriftBurnout     = "BURNOUT"
)

// Severidad de la deriva según el mayor cambio absoluto observado.
const (
	DriftSeverityLow    = "LOW"
	DriftSeverityMedium = "MEDIUM"
	DriftSeverityHigh   = "HIGH"
)

// BehaviorDrift describe el cambio entre dos snapshots separados al menos
// dos semanas, con el detalle de cada métrica que se movió.
type BehaviorDrift struct {
	Type            string  `json:"type"`
	Severity        string  `json:"severity"`
	XPChangePct     float64 `json:"xp_change_pct"`
	CompletionDelta float64 `json:"completion_delta"`
	StabilityDelta  float64 `json:"stability_delta"`
	BurnoutDelta    float64 `json:"burnout_delta"`
	GoalCountDelta  int     `json:"goal_count_delta"`
	EngagementDelta float64 `json:"engagement_delta"`
}
