package domain

import "time"

// Orígenes posibles de una transacción de XP.
const (
	TxSourceHabit = "HABIT"
	TxSourceGoal  = "GOAL"
	TxSourceDecay = "DECAY"
)

// XPTransaction es la única vía legal de modificar el XP acumulado.
// Amount puede ser negativo (penalización/decaimiento) o cero (no-op
// por tope diario); Reason siempre explica de dónde salió el monto.
type XPTransaction struct {
	ID        string    `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// IsNoop indica que la transacción no altera el estado (monto cero).
func (t XPTransaction) IsNoop() bool {
	return t.Amount == 0
}

// UserStats es el par inmutable (XP total, nivel). Se deriva una nueva
// instancia al aplicar una transacción; nunca se muta en sitio.
type UserStats struct {
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
}

// NewUserStats construye stats iniciales válidos (XP 0, nivel 1).
func NewUserStats() UserStats {
	return UserStats{TotalXP: 0, Level: 1}
}
