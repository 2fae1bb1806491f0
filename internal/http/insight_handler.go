package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habit-quest/internal/domain"
	"habit-quest/internal/repository"
	"habit-quest/internal/service"
)

// InsightHandler expone las lecturas analíticas y las proyecciones.
// Todo se recalcula sobre el estado actual del ledger en cada request.
type InsightHandler struct {
	logger    *zap.Logger
	snapshots *service.SnapshotService
	activity  repository.ActivityRepository
}

func NewInsightHandler(logger *zap.Logger, snapshots *service.SnapshotService, activity repository.ActivityRepository) *InsightHandler {
	return &InsightHandler{logger: logger, snapshots: snapshots, activity: activity}
}

// GetStreak maneja GET /users/:id/streak?habit=Nombre.
func (h *InsightHandler) GetStreak(c *gin.Context) {
	habitName := c.Query("habit")
	if habitName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit query param required"})
		return
	}
	now := time.Now().UTC()
	checks, err := h.activity.ListChecks(c.Request.Context(), c.Param("id"), habitName, now.AddDate(-1, 0, 0), now)
	if err != nil {
		h.logger.Error("list checks failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	habit := domain.Habit{Name: habitName}
	if len(checks) > 0 {
		habit = checks[0].Habit
	}
	c.JSON(http.StatusOK, gin.H{"streak": service.CalculateStreak(habit, checks, now)})
}

// GetBurnout maneja GET /users/:id/burnout.
func (h *InsightHandler) GetBurnout(c *gin.Context) {
	warning, err := h.snapshots.Burnout(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.logger.Error("burnout detection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"burnout": warning})
}

// GetBehaviorSnapshot maneja GET /users/:id/snapshot.
func (h *InsightHandler) GetBehaviorSnapshot(c *gin.Context) {
	snapshot, err := h.snapshots.BuildBehaviorSnapshot(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.logger.Error("snapshot build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// Forecast maneja GET /users/:id/forecast?years=N: simula y devuelve
// también las recomendaciones derivadas.
func (h *InsightHandler) Forecast(c *gin.Context) {
	years, err := strconv.Atoi(c.DefaultQuery("years", "3"))
	if err != nil || years < 1 || years > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "years must be between 1 and 5"})
		return
	}

	input, err := h.snapshots.BuildSimulationInput(c.Request.Context(), c.Param("id"), time.Now().UTC(), years)
	if err != nil {
		h.logger.Error("simulation input build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	result := service.Simulate(input)
	c.JSON(http.StatusOK, gin.H{
		"result":          result,
		"recommendations": service.DeriveRecommendations(result, input),
	})
}

// Scenarios maneja GET /users/:id/scenarios?years=N: genera los
// escenarios alternativos y su impacto contra la proyección base.
func (h *InsightHandler) Scenarios(c *gin.Context) {
	years, err := strconv.Atoi(c.DefaultQuery("years", "3"))
	if err != nil || years < 1 || years > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "years must be between 1 and 5"})
		return
	}

	input, err := h.snapshots.BuildSimulationInput(c.Request.Context(), c.Param("id"), time.Now().UTC(), years)
	if err != nil {
		h.logger.Error("simulation input build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	base := service.Simulate(input)
	recs := service.DeriveRecommendations(base, input)
	scenarios := service.GenerateScenarios(input, recs)
	impacts := service.EvaluateScenarios(input, base, scenarios)

	c.JSON(http.StatusOK, gin.H{
		"base":            base,
		"recommendations": recs,
		"scenarios":       scenarios,
		"impacts":         impacts,
	})
}

// Effectiveness maneja POST /effectiveness: compara el impacto que se
// predijo para un escenario contra el resultado realmente observado.
func (h *InsightHandler) Effectiveness(c *gin.Context) {
	var req struct {
		Expected domain.ScenarioImpact   `json:"expected" binding:"required"`
		Actual   domain.SimulationResult `json:"actual" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid effectiveness request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluation": service.EvaluateEffectiveness(req.Expected, req.Actual)})
}
