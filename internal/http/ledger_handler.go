package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"habit-quest/internal/domain"
	"habit-quest/internal/repository"
	"habit-quest/internal/service"
)

const dateLayout = "2006-01-02"

// LedgerHandler expone las operaciones del ledger. Es pegamento fino:
// parsea, llama al núcleo con valores planos y traduce errores a HTTP.
type LedgerHandler struct {
	logger *zap.Logger
	ledger *service.LedgerService
	goals  repository.GoalRepository
}

func NewLedgerHandler(logger *zap.Logger, ledger *service.LedgerService, goals repository.GoalRepository) *LedgerHandler {
	return &LedgerHandler{logger: logger, ledger: ledger, goals: goals}
}

// CheckHabit maneja POST /habits/check.
func (h *LedgerHandler) CheckHabit(c *gin.Context) {
	var req struct {
		UserID     string `json:"user_id" binding:"required"`
		HabitName  string `json:"habit_name" binding:"required"`
		Difficulty int    `json:"difficulty" binding:"required"`
		Date       string `json:"date" binding:"required"`
		Result     string `json:"result" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid check habit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	habit := domain.Habit{Name: req.HabitName, Difficulty: req.Difficulty}
	stats, log, tx, err := h.ledger.CheckHabit(c.Request.Context(), req.UserID, habit, date, req.Result)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"daily_log":   log,
		"transaction": tx,
	})
}

// CreateGoal maneja POST /goals.
func (h *LedgerHandler) CreateGoal(c *gin.Context) {
	var req struct {
		UserID      string `json:"user_id" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		StartDate   string `json:"start_date" binding:"required"`
		TargetDate  string `json:"target_date" binding:"required"`
		Importance  int    `json:"importance" binding:"required"`
		TotalPoints int    `json:"total_points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create goal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	target, err := time.Parse(dateLayout, req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target_date"})
		return
	}
	if !target.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_date must be after start_date"})
		return
	}
	if req.Importance < 1 || req.Importance > 5 || req.TotalPoints <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "importance must be 1-5 and total_points positive"})
		return
	}

	goal := domain.Goal{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		TargetDate:  target,
		Importance:  req.Importance,
		TotalPoints: req.TotalPoints,
	}
	if err := h.goals.Create(c.Request.Context(), req.UserID, goal); err != nil {
		h.logger.Error("create goal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create goal"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// AddGoalNote maneja POST /goals/:id/notes.
func (h *LedgerHandler) AddGoalNote(c *gin.Context) {
	var req struct {
		UserID      string `json:"user_id" binding:"required"`
		Date        string `json:"date" binding:"required"`
		Text        string `json:"text" binding:"required"`
		RequestedXP int    `json:"requested_xp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid goal note request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	stats, note, tx, err := h.ledger.AddGoalNote(c.Request.Context(), req.UserID, c.Param("id"), date, req.Text, req.RequestedXP)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"note":        note,
		"transaction": tx,
	})
}

func (h *LedgerHandler) respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrHabitAlreadyRewarded), errors.Is(err, service.ErrNoteAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGoalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("ledger operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
