package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"habit-quest/internal/domain"
)

/*
========================
 Curva de niveles
========================
*/

// El nivel 1 cubre [0, 100). Cada requisito siguiente es el anterior
// multiplicado por 1.5 truncado a entero, y los umbrales se acumulan.
const baseLevelRequirement = 100

// LevelForXP devuelve el nivel correspondiente a un total de XP.
// Monótona no decreciente; nunca devuelve menos de 1.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	requirement := baseLevelRequirement
	threshold := requirement
	for totalXP >= threshold {
		level++
		requirement = requirement * 3 / 2
		threshold += requirement
	}
	return level
}

// XPForLevel devuelve el XP mínimo necesario para alcanzar el nivel dado.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	requirement := baseLevelRequirement
	threshold := requirement
	for l := 2; l < level; l++ {
		requirement = requirement * 3 / 2
		threshold += requirement
	}
	return threshold
}

// ApplyTransaction deriva nuevos stats aplicando una transacción.
// El total nunca baja de cero y el nivel se recalcula siempre.
func ApplyTransaction(stats domain.UserStats, tx domain.XPTransaction) domain.UserStats {
	total := stats.TotalXP + tx.Amount
	if total < 0 {
		total = 0
	}
	return domain.UserStats{TotalXP: total, Level: LevelForXP(total)}
}

/*
========================
 Recompensa y castigo
========================
*/

// RewardForHabit devuelve la transacción por completar un hábito:
// dificultad x 10 XP.
func RewardForHabit(habit domain.Habit) domain.XPTransaction {
	return domain.XPTransaction{
		ID:        uuid.NewString(),
		Amount:    habit.Difficulty * 10,
		Reason:    fmt.Sprintf("Hábito '%s' completado", habit.Name),
		Source:    domain.TxSourceHabit,
		CreatedAt: time.Now().UTC(),
	}
}

// PenaltyForHabit devuelve la transacción por fallar un hábito.
// Los hábitos fáciles (dificultad <= 2) castigan más por fallo (-15 x d);
// los difíciles menos (-5 x d), porque el esfuerzo invertido ya pesa.
func PenaltyForHabit(habit domain.Habit) domain.XPTransaction {
	amount := -5 * habit.Difficulty
	if habit.Difficulty <= 2 {
		amount = -15 * habit.Difficulty
	}
	return domain.XPTransaction{
		ID:        uuid.NewString(),
		Amount:    amount,
		Reason:    fmt.Sprintf("Hábito '%s' fallado", habit.Name),
		Source:    domain.TxSourceHabit,
		CreatedAt: time.Now().UTC(),
	}
}

/*
========================
 Decaimiento por inactividad
========================
*/

// DecayForInactivity calcula el decaimiento acumulado entre la última
// actividad y la fecha actual. Hasta el umbral de días no hay decaimiento;
// por cada día extra se descuenta floor(restante x tasa), componiendo sobre
// el balance menguante, y se corta en cuanto un día no descuenta nada.
// Devuelve una única transacción negativa agregada, o ok=false si no aplica.
func DecayForInactivity(lastActivity, today time.Time, currentXP, thresholdDays int, rate float64) (domain.XPTransaction, bool) {
	if currentXP <= 0 || rate <= 0 {
		return domain.XPTransaction{}, false
	}
	inactiveDays := daysBetween(lastActivity, today)
	if inactiveDays <= thresholdDays {
		return domain.XPTransaction{}, false
	}

	remaining := currentXP
	total := 0
	for day := 0; day < inactiveDays-thresholdDays; day++ {
		loss := int(float64(remaining) * rate)
		if loss <= 0 {
			break
		}
		remaining -= loss
		total += loss
	}
	if total == 0 {
		return domain.XPTransaction{}, false
	}

	return domain.XPTransaction{
		ID:        uuid.NewString(),
		Amount:    -total,
		Reason:    fmt.Sprintf("Decaimiento por %d días de inactividad", inactiveDays),
		Source:    domain.TxSourceDecay,
		CreatedAt: time.Now().UTC(),
	}, true
}
