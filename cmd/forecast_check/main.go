// forecast_check es un arnés offline: arma un snapshot representativo,
// corre la simulación base, deriva recomendaciones, genera escenarios y
// muestra el impacto de cada uno. Sirve para revisar a ojo el modelo
// sin levantar el servicio.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"habit-quest/internal/config"
	"habit-quest/internal/domain"
	"habit-quest/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

func main() {
	_ = godotenv.Load()

	if _, err := config.LoadConfig(); err != nil {
		log.Fatalf("load config: %v", err)
	}

	now := time.Now().UTC()
	input := domain.SimulationInput{
		Stats:            domain.UserStats{TotalXP: 1200, Level: service.LevelForXP(1200)},
		ConsistencyScore: 62,
		AvgDailyEffort:   55,
		DifficultyHistogram: map[int]int{
			2: 1,
			3: 2,
			4: 1,
			5: 1,
		},
		Goals: []domain.Goal{
			{
				ID:          uuid.NewString(),
				Title:       "Terminar el curso de backend",
				StartDate:   now.AddDate(0, -2, 0),
				TargetDate:  now.AddDate(0, 4, 0),
				Importance:  4,
				TotalPoints: 200,
			},
		},
		ActiveDaysLast30: 21,
		AvgStreakLength:  9,
		Years:            3,
	}

	base := service.Simulate(input)
	fmt.Printf("%s=== Proyección base ===%s\n", colorCyan, colorReset)
	for _, p := range base.Projections {
		fmt.Printf("  año %d: %6d XP, nivel %2d, habilidad %5.1f, crecimiento %5.1f%%\n",
			p.Year, p.ProjectedXP, p.Level, p.SkillGrowth, p.GrowthRate)
	}
	fmt.Printf("  burnout %s | ingreso %d-%d-%d USD | emigración %d%%\n",
		base.BurnoutTier, base.Income.Low, base.Income.Expected, base.Income.High, base.EmigrationProb)
	fmt.Println("  " + base.Explanation)

	recs := service.DeriveRecommendations(base, input)
	fmt.Printf("\n%s=== Recomendaciones ===%s\n", colorCyan, colorReset)
	for _, rec := range recs {
		fmt.Printf("  [P%d] %s: %s\n", rec.Priority, rec.Type, rec.Reason)
	}

	scenarios := service.GenerateScenarios(input, recs)
	impacts := service.EvaluateScenarios(input, base, scenarios)
	fmt.Printf("\n%s=== Escenarios ===%s\n", colorCyan, colorReset)
	for _, impact := range impacts {
		fmt.Printf("%s* %s%s\n", colorGreen, impact.ScenarioName, colorReset)
		fmt.Println("  " + impact.Description)
	}
}
