package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habit-quest/internal/domain"
	"habit-quest/internal/repository"
)

// Ventana de agregación para los snapshots, en días.
const snapshotWindowDays = 30

// SnapshotService arma los insumos de análisis y simulación leyendo la
// historia del ledger. Todo lo que devuelve se recalcula en cada llamada;
// nada se cachea.
type SnapshotService struct {
	logger   *zap.Logger
	stats    repository.StatsRepository
	activity repository.ActivityRepository
	txs      repository.TransactionRepository
	goals    repository.GoalRepository
	cfg      LedgerConfig
}

func NewSnapshotService(
	logger *zap.Logger,
	stats repository.StatsRepository,
	activity repository.ActivityRepository,
	txs repository.TransactionRepository,
	goals repository.GoalRepository,
	cfg LedgerConfig,
) *SnapshotService {
	if cfg.DailyXPCap <= 0 {
		cfg = DefaultLedgerConfig()
	}
	return &SnapshotService{
		logger:   logger,
		stats:    stats,
		activity: activity,
		txs:      txs,
		goals:    goals,
		cfg:      cfg,
	}
}

// history reúne los últimos 30 días de actividad de un usuario.
type history struct {
	stats  domain.UserStats
	checks []domain.HabitCheck
	logs   []domain.DailyActivityLog
	txs    []domain.XPTransaction
	goals  []domain.Goal
	notes  map[string][]domain.GoalNote
}

func (s *SnapshotService) load(ctx context.Context, userID string, ref time.Time) (history, error) {
	var h history

	stats, _, err := s.stats.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		stats = domain.NewUserStats()
	} else if err != nil {
		return h, fmt.Errorf("get stats: %w", err)
	}
	h.stats = stats

	from := toDay(ref).AddDate(0, 0, -snapshotWindowDays)
	to := toDay(ref)

	if h.checks, err = s.activity.ListChecks(ctx, userID, "", from, to); err != nil {
		return h, fmt.Errorf("list checks: %w", err)
	}
	if h.logs, err = s.activity.ListLogs(ctx, userID, from, to); err != nil {
		return h, fmt.Errorf("list logs: %w", err)
	}
	if h.txs, err = s.txs.ListBetween(ctx, userID, from, to.AddDate(0, 0, 1)); err != nil {
		return h, fmt.Errorf("list transactions: %w", err)
	}
	if h.goals, err = s.goals.ListActive(ctx, userID, ref); err != nil {
		return h, fmt.Errorf("list goals: %w", err)
	}
	h.notes = make(map[string][]domain.GoalNote, len(h.goals))
	for _, g := range h.goals {
		notes, err := s.goals.ListNotes(ctx, userID, g.ID)
		if err != nil {
			return h, fmt.Errorf("list notes for %s: %w", g.ID, err)
		}
		h.notes[g.ID] = notes
	}
	return h, nil
}

// Burnout evalúa el warning de burnout actual del usuario.
func (s *SnapshotService) Burnout(ctx context.Context, userID string, ref time.Time) (domain.BurnoutWarning, error) {
	h, err := s.load(ctx, userID, ref)
	if err != nil {
		return domain.BurnoutWarning{}, err
	}
	return DetectBurnout(h.txs, h.logs, ref, s.cfg.DailyXPCap), nil
}

// BuildSimulationInput agrega la ventana de 30 días en el snapshot que
// consume el motor de proyección.
func (s *SnapshotService) BuildSimulationInput(ctx context.Context, userID string, ref time.Time, years int) (domain.SimulationInput, error) {
	h, err := s.load(ctx, userID, ref)
	if err != nil {
		return domain.SimulationInput{}, err
	}

	input := domain.SimulationInput{
		Stats:               h.stats,
		ConsistencyScore:    averageConsistency(h.goals, h.notes, ref),
		AvgDailyEffort:      averageDailyEffort(h.logs),
		DifficultyHistogram: difficultyHistogram(h.checks),
		Goals:               h.goals,
		Burnout:             DetectBurnout(h.txs, h.logs, ref, s.cfg.DailyXPCap),
		ActiveDaysLast30:    activeDayCount(h.logs),
		AvgStreakLength:     averageCurrentStreak(h.checks, ref),
		Years:               years,
	}
	s.logger.Debug("simulation input built",
		zap.String("user_id", userID),
		zap.Float64("effort", input.AvgDailyEffort),
		zap.Float64("consistency", input.ConsistencyScore),
		zap.Int("active_days", input.ActiveDaysLast30),
	)
	return input, nil
}

// BuildBehaviorSnapshot captura el agregado puntual que usa el detector
// de deriva de comportamiento.
func (s *SnapshotService) BuildBehaviorSnapshot(ctx context.Context, userID string, ref time.Time) (domain.BehaviorSnapshot, error) {
	h, err := s.load(ctx, userID, ref)
	if err != nil {
		return domain.BehaviorSnapshot{}, err
	}

	warning := DetectBurnout(h.txs, h.logs, ref, s.cfg.DailyXPCap)
	return domain.BehaviorSnapshot{
		TakenAt:         toDay(ref),
		AvgDailyXP:      averageDailyEffort(h.logs),
		CompletionRate:  completionRate(h.checks),
		StreakStability: streakStability(h.checks, ref),
		BurnoutRisk:     float64(warning.Severity),
		ActiveGoals:     len(h.goals),
		GoalEngagement:  goalEngagement(h.goals, h.notes, ref),
	}, nil
}

/*
========================
 Agregaciones puras
========================
*/

// averageDailyEffort promedia el XP ganado sobre los días activos.
func averageDailyEffort(logs []domain.DailyActivityLog) float64 {
	active := 0
	total := 0
	for _, log := range logs {
		if log.XPGained > 0 || len(log.Checks) > 0 {
			active++
			total += log.XPGained
		}
	}
	if active == 0 {
		return 0
	}
	return float64(total) / float64(active)
}

func activeDayCount(logs []domain.DailyActivityLog) int {
	count := 0
	for _, log := range logs {
		if log.XPGained > 0 || len(log.Checks) > 0 {
			count++
		}
	}
	return count
}

// difficultyHistogram cuenta hábitos distintos por dificultad.
func difficultyHistogram(checks []domain.HabitCheck) map[int]int {
	seen := make(map[string]int)
	for _, c := range checks {
		seen[c.Habit.Name] = c.Habit.Difficulty
	}
	hist := make(map[int]int)
	for _, difficulty := range seen {
		hist[difficulty]++
	}
	return hist
}

// averageCurrentStreak promedia las rachas vivas de cada hábito visto.
func averageCurrentStreak(checks []domain.HabitCheck, ref time.Time) float64 {
	byHabit := make(map[string][]domain.HabitCheck)
	habits := make(map[string]domain.Habit)
	for _, c := range checks {
		byHabit[c.Habit.Name] = append(byHabit[c.Habit.Name], c)
		habits[c.Habit.Name] = c.Habit
	}
	if len(byHabit) == 0 {
		return 0
	}
	total := 0
	for name, habitChecks := range byHabit {
		total += CalculateStreak(habits[name], habitChecks, ref).Current
	}
	return float64(total) / float64(len(byHabit))
}

// averageConsistency promedia el score de consistencia de las metas
// activas. Sin metas devuelve el neutro de 50.
func averageConsistency(goals []domain.Goal, notes map[string][]domain.GoalNote, ref time.Time) float64 {
	if len(goals) == 0 {
		return 50
	}
	total := 0.0
	for _, g := range goals {
		total += CalculateConsistency(g, notes[g.ID], ref).Score
	}
	return total / float64(len(goals))
}

// completionRate es el porcentaje de checks DONE sobre el total resuelto.
func completionRate(checks []domain.HabitCheck) float64 {
	if len(checks) == 0 {
		return 0
	}
	done := 0
	for _, c := range checks {
		if c.Result == domain.CheckDone {
			done++
		}
	}
	return float64(done) / float64(len(checks)) * 100
}

// streakStability promedia racha actual sobre racha máxima por hábito.
func streakStability(checks []domain.HabitCheck, ref time.Time) float64 {
	byHabit := make(map[string][]domain.HabitCheck)
	habits := make(map[string]domain.Habit)
	for _, c := range checks {
		byHabit[c.Habit.Name] = append(byHabit[c.Habit.Name], c)
		habits[c.Habit.Name] = c.Habit
	}
	if len(byHabit) == 0 {
		return 0
	}
	total := 0.0
	for name, habitChecks := range byHabit {
		streak := CalculateStreak(habits[name], habitChecks, ref)
		if streak.Longest > 0 {
			total += float64(streak.Current) / float64(streak.Longest) * 100
		}
	}
	return total / float64(len(byHabit))
}

// goalEngagement es el porcentaje de metas activas con alguna nota en
// las últimas dos semanas.
func goalEngagement(goals []domain.Goal, notes map[string][]domain.GoalNote, ref time.Time) float64 {
	if len(goals) == 0 {
		return 0
	}
	engaged := 0
	cutoff := toDay(ref).AddDate(0, 0, -14)
	for _, g := range goals {
		for _, n := range notes[g.ID] {
			if !toDay(n.Date).Before(cutoff) {
				engaged++
				break
			}
		}
	}
	return float64(engaged) / float64(len(goals)) * 100
}
