package domain

import "time"

// Goal es una meta de largo plazo del usuario. Title es único por usuario,
// TargetDate siempre posterior a StartDate, Importance 1-5 y TotalPoints > 0.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	TargetDate  time.Time `json:"target_date"`
	Importance  int       `json:"importance"`
	TotalPoints int       `json:"total_points"`
}

// GoalNote registra progreso sobre una meta en una fecha.
// A lo sumo una nota por (meta, fecha); Points >= 0 es el XP efectivamente
// acreditado tras aplicar los topes.
type GoalNote struct {
	ID     string    `json:"id"`
	GoalID string    `json:"goal_id"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
	Points int       `json:"points"`
}

// Consistency resume la regularidad de notas de una meta: score 0-100,
// días activos, cantidad de notas y brecha promedio entre días activos.
type Consistency struct {
	GoalID     string  `json:"goal_id"`
	Score      float64 `json:"score"`
	ActiveDays int     `json:"active_days"`
	NoteCount  int     `json:"note_count"`
	AvgGapDays float64 `json:"avg_gap_days"`
}
