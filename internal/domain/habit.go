package domain

import "time"

// Resultado terminal de un check de hábito en una fecha.
const (
	CheckDone   = "DONE"
	CheckMissed = "MISSED"
)

// Habit identifica un hábito por nombre y dificultad 1-5.
// Igualdad por valor: dos hábitos con mismo nombre y dificultad son el mismo.
type Habit struct {
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
}

// HabitCheck registra que un hábito quedó resuelto (DONE o MISSED)
// en una fecha concreta.
type HabitCheck struct {
	ID     string    `json:"id"`
	Habit  Habit     `json:"habit"`
	Date   time.Time `json:"date"`
	Result string    `json:"result"`
}

// DailyActivityLog es el registro inmutable de un día: XP ganado
// (solo ganancias, nunca penalizaciones) y los checks de ese día.
// Sirve para detectar recompensas duplicadas y aplicar el tope diario.
type DailyActivityLog struct {
	Date     time.Time    `json:"date"`
	XPGained int          `json:"xp_gained"`
	Checks   []HabitCheck `json:"checks"`
}

// HasDone indica si el hábito ya fue marcado DONE en este día.
func (l DailyActivityLog) HasDone(habit Habit) bool {
	for _, c := range l.Checks {
		if c.Habit.Name == habit.Name && c.Result == CheckDone {
			return true
		}
	}
	return false
}

// Streak describe la racha de un hábito: longitud actual, la más larga
// jamás vista (siempre >= actual) y la fecha de inicio de la actual.
type Streak struct {
	Habit        Habit      `json:"habit"`
	Current      int        `json:"current"`
	Longest      int        `json:"longest"`
	CurrentStart *time.Time `json:"current_start,omitempty"`
}
