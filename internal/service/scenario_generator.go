package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"habit-quest/internal/domain"
)

/*
========================
 Generación de escenarios
========================
*/

// scenarioMutation es la mutación pura y determinista de un tipo de
// recomendación: recibe un input clonado y lo ajusta, anotando cada
// parámetro tocado en adjustments.
type scenarioMutation func(in *domain.SimulationInput, adjustments map[string]string)

// Tabla cerrada de mutaciones por tipo. Despacho por tag, sin jerarquías.
var scenarioMutations = map[string]scenarioMutation{
	domain.RecReduceBurnout:      mutateReduceBurnout,
	domain.RecImproveConsistency: mutateImproveConsistency,
	domain.RecAddGoalFocus:       mutateAddGoalFocus,
	domain.RecAdjustDifficulty:   mutateAdjustDifficulty,
	domain.RecAddHabits:          mutateAddHabits,
	domain.RecBalanceEffort:      mutateBalanceEffort,
	domain.RecOptimize:           mutateOptimize,
}

var scenarioNames = map[string]string{
	domain.RecReduceBurnout:      "Bajar el ritmo para evitar burnout",
	domain.RecImproveConsistency: "Mejorar la consistencia",
	domain.RecAddGoalFocus:       "Sumar foco en metas",
	domain.RecAdjustDifficulty:   "Reequilibrar dificultades",
	domain.RecAddHabits:          "Agregar hábitos nuevos",
	domain.RecBalanceEffort:      "Balancear el esfuerzo diario",
	domain.RecOptimize:           "Optimización general",
}

var scenarioRationales = map[string]string{
	domain.RecReduceBurnout:      "El riesgo de burnout proyectado es alto; recortar esfuerzo y dificultad protege la trayectoria.",
	domain.RecImproveConsistency: "Más regularidad rinde más que más intensidad: sube el multiplicador de consistencia.",
	domain.RecAddGoalFocus:       "Una meta activa adicional mejora el bono de metas y el índice de habilidad.",
	domain.RecAdjustDifficulty:   "Concentrar hábitos en dificultad media mantiene el bono sin disparar el riesgo.",
	domain.RecAddHabits:          "Más hábitos en dificultad baja-media amplían la base de XP diaria.",
	domain.RecBalanceEffort:      "Ajustar el esfuerzo hacia un nivel sostenible estabiliza la proyección.",
	domain.RecOptimize:           "Pequeñas mejoras combinadas en consistencia, esfuerzo y racha.",
}

// GenerateScenarios produce un escenario por recomendación, más un
// escenario combinado cuando hay varias recomendaciones de máxima
// prioridad. Cada escenario parte de una copia del input base.
func GenerateScenarios(input domain.SimulationInput, recs []domain.Recommendation) []domain.GeneratedScenario {
	var scenarios []domain.GeneratedScenario
	for _, rec := range recs {
		mutation, ok := scenarioMutations[rec.Type]
		if !ok {
			continue
		}
		mutated := input.Clone()
		adjustments := make(map[string]string)
		mutation(&mutated, adjustments)

		scenarios = append(scenarios, domain.GeneratedScenario{
			ID:              uuid.NewString(),
			Name:            scenarioNames[rec.Type],
			Input:           mutated,
			Recommendations: []string{rec.Type},
			Rationale:       scenarioRationales[rec.Type],
			Adjustments:     adjustments,
		})
	}

	// Escenario combinado: aplicar en secuencia todas las de prioridad 1.
	var topTypes []string
	for _, rec := range recs {
		if rec.Priority == 1 {
			if _, ok := scenarioMutations[rec.Type]; ok {
				topTypes = append(topTypes, rec.Type)
			}
		}
	}
	if len(topTypes) > 1 {
		mutated := input.Clone()
		adjustments := make(map[string]string)
		for _, t := range topTypes {
			scenarioMutations[t](&mutated, adjustments)
		}
		scenarios = append(scenarios, domain.GeneratedScenario{
			ID:              uuid.NewString(),
			Name:            "Plan combinado",
			Input:           mutated,
			Recommendations: topTypes,
			Rationale:       "Aplica en conjunto las recomendaciones de máxima prioridad.",
			Adjustments:     adjustments,
		})
	}
	return scenarios
}

// DeriveRecommendations traduce una simulación en consejos priorizados.
// Reglas deterministas; siempre devuelve al menos una recomendación.
func DeriveRecommendations(result domain.SimulationResult, input domain.SimulationInput) []domain.Recommendation {
	var recs []domain.Recommendation

	if result.BurnoutTier == domain.RiskTierHigh || input.Burnout.Active {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecReduceBurnout,
			Priority: 1,
			Reason:   "Riesgo de burnout alto en la proyección o warning ya activo",
		})
	}
	if input.ConsistencyScore < 50 {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecImproveConsistency,
			Priority: 1,
			Reason:   fmt.Sprintf("Consistencia baja (%.0f/100)", input.ConsistencyScore),
		})
	}
	if len(input.Goals) == 0 {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecAddGoalFocus,
			Priority: 2,
			Reason:   "Sin metas activas no hay bono de metas",
		})
	}
	if weightedAvgDifficulty(input.DifficultyHistogram) > 4 {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecAdjustDifficulty,
			Priority: 2,
			Reason:   "Casi todos los hábitos son de dificultad máxima",
		})
	}
	if input.HabitCount() < 3 {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecAddHabits,
			Priority: 3,
			Reason:   "Pocos hábitos activos limitan la base de XP",
		})
	}
	if input.AvgDailyEffort > 150 {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecBalanceEffort,
			Priority: 2,
			Reason:   "Esfuerzo diario por encima de lo sostenible",
		})
	}
	if len(recs) == 0 {
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecOptimize,
			Priority: 3,
			Reason:   "Trayectoria sana; solo quedan optimizaciones menores",
		})
	}
	return recs
}

/*
========================
 Mutaciones por tipo
========================
*/

func mutateReduceBurnout(in *domain.SimulationInput, adj map[string]string) {
	in.AvgDailyEffort *= 0.75
	adj["esfuerzo"] = "-25%"

	// Mover un hábito de dificultad alta hacia media.
	for _, d := range []int{5, 4} {
		if in.DifficultyHistogram[d] > 0 {
			in.DifficultyHistogram[d]--
			in.DifficultyHistogram[3]++
			adj["dificultad"] = fmt.Sprintf("un hábito de dificultad %d pasa a 3", d)
			break
		}
	}
	in.Burnout = domain.BurnoutWarning{}
	adj["burnout"] = "warning reiniciado"
}

func mutateImproveConsistency(in *domain.SimulationInput, adj map[string]string) {
	in.ConsistencyScore = clamp(in.ConsistencyScore+15, 0, 100)
	adj["consistencia"] = "+15 puntos"

	in.ActiveDaysLast30 += 5
	if in.ActiveDaysLast30 > 30 {
		in.ActiveDaysLast30 = 30
	}
	adj["dias_activos"] = "+5 días en la ventana de 30"
}

func mutateAddGoalFocus(in *domain.SimulationInput, adj map[string]string) {
	now := time.Now().UTC()
	in.Goals = append(in.Goals, domain.Goal{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("Meta hipotética %d", len(in.Goals)+1),
		StartDate:   now,
		TargetDate:  now.AddDate(0, 6, 0),
		Importance:  3,
		TotalPoints: 100,
	})
	adj["metas"] = "+1 meta activa de importancia 3"
}

func mutateAdjustDifficulty(in *domain.SimulationInput, adj map[string]string) {
	moved := 0
	for _, d := range []int{1, 5} {
		if in.DifficultyHistogram[d] > 0 {
			in.DifficultyHistogram[d]--
			in.DifficultyHistogram[3]++
			moved++
		}
	}
	if moved > 0 {
		adj["dificultad"] = fmt.Sprintf("%d hábito(s) movidos hacia dificultad 3", moved)
	}
}

func mutateAddHabits(in *domain.SimulationInput, adj map[string]string) {
	in.DifficultyHistogram[2]++
	in.DifficultyHistogram[3]++
	in.AvgDailyEffort *= 1.10
	adj["habitos"] = "+1 hábito de dificultad 2 y +1 de dificultad 3"
	adj["esfuerzo"] = "+10%"
}

func mutateBalanceEffort(in *domain.SimulationInput, adj map[string]string) {
	if in.AvgDailyEffort > 100 {
		in.AvgDailyEffort *= 0.85
		adj["esfuerzo"] = "-15% hacia un nivel sostenible"
	} else {
		in.AvgDailyEffort *= 1.10
		adj["esfuerzo"] = "+10% hacia un nivel sostenible"
	}
	in.ConsistencyScore = clamp(in.ConsistencyScore+5, 0, 100)
	adj["consistencia"] = "+5 puntos"
}

func mutateOptimize(in *domain.SimulationInput, adj map[string]string) {
	in.ConsistencyScore = clamp(in.ConsistencyScore+10, 0, 100)
	in.AvgDailyEffort *= 1.05
	in.AvgStreakLength = math.Min(in.AvgStreakLength+5, 30)
	adj["consistencia"] = "+10 puntos"
	adj["esfuerzo"] = "+5%"
	adj["racha"] = "+5 días promedio"
}
