package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"habit-quest/internal/domain"
	"habit-quest/internal/repository"
)

// Errores de negocio del ledger. Los conflictos son terminales para ese
// (entidad, fecha); reintentar con otra fecha sí procede.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrHabitAlreadyRewarded = errors.New("habit already rewarded today")
	ErrNoteAlreadyExists    = errors.New("goal note already exists for this date")
	ErrGoalNotFound         = errors.New("goal not found")
)

// LedgerConfig agrupa los parámetros ajustables del ledger.
type LedgerConfig struct {
	DailyXPCap         int
	GoalDailyXPCap     int
	DecayThresholdDays int
	DecayRate          float64
}

// DefaultLedgerConfig devuelve los valores de producto por defecto.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		DailyXPCap:         100,
		GoalDailyXPCap:     10,
		DecayThresholdDays: 3,
		DecayRate:          0.05,
	}
}

// LedgerService es el único camino legal para mutar XP: registra checks
// de hábitos y notas de metas aplicando anti-trampa, topes diarios y
// decaimiento. El estado por usuario se serializa con un mutex por
// usuario; las lecturas analíticas no pasan por aquí.
type LedgerService struct {
	logger   *zap.Logger
	stats    repository.StatsRepository
	activity repository.ActivityRepository
	txs      repository.TransactionRepository
	goals    repository.GoalRepository
	budget   DailyBudgetStore
	cfg      LedgerConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedgerService(
	logger *zap.Logger,
	stats repository.StatsRepository,
	activity repository.ActivityRepository,
	txs repository.TransactionRepository,
	goals repository.GoalRepository,
	budget DailyBudgetStore,
	cfg LedgerConfig,
) *LedgerService {
	if budget == nil {
		budget = NewMemoryDailyBudgetStore()
	}
	if cfg.DailyXPCap <= 0 {
		cfg = DefaultLedgerConfig()
	}
	return &LedgerService{
		logger:   logger,
		stats:    stats,
		activity: activity,
		txs:      txs,
		goals:    goals,
		budget:   budget,
		cfg:      cfg,
		locks:    make(map[string]*sync.Mutex),
	}
}

// userLock devuelve el mutex del usuario, creándolo si hace falta.
func (s *LedgerService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// CheckHabit registra que un hábito quedó resuelto en una fecha y devuelve
// los stats actualizados, el log del día y la transacción resultante.
// Marcar DONE dos veces el mismo día es conflicto; MISSED se acepta siempre.
func (s *LedgerService) CheckHabit(ctx context.Context, userID string, habit domain.Habit, date time.Time, result string) (domain.UserStats, domain.DailyActivityLog, domain.XPTransaction, error) {
	var zero domain.XPTransaction
	if strings.TrimSpace(userID) == "" {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	if strings.TrimSpace(habit.Name) == "" {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("%w: empty habit name", ErrInvalidInput)
	}
	if habit.Difficulty < 1 || habit.Difficulty > 5 {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("%w: difficulty %d out of range 1-5", ErrInvalidInput, habit.Difficulty)
	}
	if result != domain.CheckDone && result != domain.CheckMissed {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("%w: result %q", ErrInvalidInput, result)
	}
	if date.IsZero() {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("%w: zero date", ErrInvalidInput)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	today := toDay(date)

	stats, lastActivity, err := s.loadStats(ctx, userID)
	if err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, err
	}

	log, err := s.activity.GetDailyLog(ctx, userID, today)
	if errors.Is(err, repository.ErrNotFound) {
		log = domain.DailyActivityLog{Date: today}
	} else if err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("get daily log: %w", err)
	}

	// Anti-trampa: un DONE por hábito por día.
	if result == domain.CheckDone && log.HasDone(habit) {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("%w: habit %q on %s", ErrHabitAlreadyRewarded, habit.Name, today.Format("2006-01-02"))
	}

	stats, err = s.applyDecayIfDue(ctx, userID, stats, lastActivity, today)
	if err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, err
	}

	var tx domain.XPTransaction
	if result == domain.CheckDone {
		tx = RewardForHabit(habit)
	} else {
		tx = PenaltyForHabit(habit)
	}

	// El tope diario limita solo ganancias; las penalizaciones pasan enteras.
	if tx.Amount > 0 {
		tx, err = s.capGain(ctx, userID, today, tx)
		if err != nil {
			return domain.UserStats{}, domain.DailyActivityLog{}, zero, err
		}
	}

	check := domain.HabitCheck{
		ID:     uuid.NewString(),
		Habit:  habit,
		Date:   today,
		Result: result,
	}
	if err := s.activity.AddCheck(ctx, userID, check); err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("add check: %w", err)
	}
	log.Checks = append(log.Checks, check)

	if tx.Amount > 0 {
		if err := s.budget.Add(ctx, userID, today, tx.Amount); err != nil {
			return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("consume daily budget: %w", err)
		}
		log.XPGained += tx.Amount
	}
	if err := s.activity.UpsertDailyGain(ctx, userID, today, log.XPGained); err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("upsert daily gain: %w", err)
	}

	if !tx.IsNoop() {
		stats = ApplyTransaction(stats, tx)
	}
	if err := s.txs.Record(ctx, userID, tx); err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("record transaction: %w", err)
	}

	if today.After(lastActivity) {
		lastActivity = today
	}
	if err := s.stats.Save(ctx, userID, stats, lastActivity); err != nil {
		return domain.UserStats{}, domain.DailyActivityLog{}, zero, fmt.Errorf("save stats: %w", err)
	}

	s.logger.Info("habit checked",
		zap.String("user_id", userID),
		zap.String("habit", habit.Name),
		zap.String("result", result),
		zap.Int("xp", tx.Amount),
		zap.Int("total_xp", stats.TotalXP),
	)
	return stats, log, tx, nil
}

// AddGoalNote registra progreso sobre una meta. El XP pedido se recorta
// contra dos topes a la vez: el de la meta por día y el tope diario global
// que comparte con los hábitos.
func (s *LedgerService) AddGoalNote(ctx context.Context, userID, goalID string, date time.Time, text string, requestedXP int) (domain.UserStats, domain.GoalNote, domain.XPTransaction, error) {
	var zero domain.XPTransaction
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(goalID) == "" {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("%w: empty user or goal id", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("%w: empty note text", ErrInvalidInput)
	}
	if requestedXP < 0 {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("%w: negative requested xp", ErrInvalidInput)
	}
	if date.IsZero() {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("%w: zero date", ErrInvalidInput)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	today := toDay(date)

	goal, err := s.goals.GetByID(ctx, userID, goalID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("%w: %s", ErrGoalNotFound, goalID)
	} else if err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("get goal: %w", err)
	}

	exists, err := s.goals.NoteExists(ctx, userID, goalID, today)
	if err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("check note: %w", err)
	}
	if exists {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("%w: goal %q on %s", ErrNoteAlreadyExists, goal.Title, today.Format("2006-01-02"))
	}

	stats, lastActivity, err := s.loadStats(ctx, userID)
	if err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, err
	}
	stats, err = s.applyDecayIfDue(ctx, userID, stats, lastActivity, today)
	if err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, err
	}

	goalGained, err := s.budget.Gained(ctx, userID+":"+goalID, today)
	if err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("read goal budget: %w", err)
	}
	overallGained, err := s.budget.Gained(ctx, userID, today)
	if err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("read daily budget: %w", err)
	}

	granted := requestedXP
	if remaining := s.cfg.GoalDailyXPCap - goalGained; granted > remaining {
		granted = remaining
	}
	if remaining := s.cfg.DailyXPCap - overallGained; granted > remaining {
		granted = remaining
	}
	if granted < 0 {
		granted = 0
	}

	reason := fmt.Sprintf("Progreso en meta '%s'", goal.Title)
	if granted == 0 && requestedXP > 0 {
		reason += " (tope diario de XP alcanzado)"
	} else if granted < requestedXP {
		reason += " (limitado por tope diario)"
	}
	tx := domain.XPTransaction{
		ID:        uuid.NewString(),
		Amount:    granted,
		Reason:    reason,
		Source:    domain.TxSourceGoal,
		CreatedAt: time.Now().UTC(),
	}

	note := domain.GoalNote{
		ID:     uuid.NewString(),
		GoalID: goalID,
		Date:   today,
		Text:   text,
		Points: granted,
	}
	if err := s.goals.AddNote(ctx, userID, note); err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("add note: %w", err)
	}

	if granted > 0 {
		if err := s.budget.Add(ctx, userID+":"+goalID, today, granted); err != nil {
			return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("consume goal budget: %w", err)
		}
		if err := s.budget.Add(ctx, userID, today, granted); err != nil {
			return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("consume daily budget: %w", err)
		}
		// El XP de metas también cuenta en el total diario del ledger de hábitos.
		if err := s.activity.UpsertDailyGain(ctx, userID, today, overallGained+granted); err != nil {
			return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("upsert daily gain: %w", err)
		}
	}

	if !tx.IsNoop() {
		stats = ApplyTransaction(stats, tx)
	}
	if err := s.txs.Record(ctx, userID, tx); err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("record transaction: %w", err)
	}

	if today.After(lastActivity) {
		lastActivity = today
	}
	if err := s.stats.Save(ctx, userID, stats, lastActivity); err != nil {
		return domain.UserStats{}, domain.GoalNote{}, zero, fmt.Errorf("save stats: %w", err)
	}

	s.logger.Info("goal note added",
		zap.String("user_id", userID),
		zap.String("goal", goal.Title),
		zap.Int("requested_xp", requestedXP),
		zap.Int("granted_xp", granted),
	)
	return stats, note, tx, nil
}

// loadStats trae stats y última actividad, inicializando usuarios nuevos.
func (s *LedgerService) loadStats(ctx context.Context, userID string) (domain.UserStats, time.Time, error) {
	stats, lastActivity, err := s.stats.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewUserStats(), time.Time{}, nil
	}
	if err != nil {
		return domain.UserStats{}, time.Time{}, fmt.Errorf("get stats: %w", err)
	}
	return stats, lastActivity, nil
}

// applyDecayIfDue aplica el decaimiento pendiente si hubo actividad previa
// estrictamente anterior a hoy. El decaimiento se registra como su propia
// transacción agregada antes de tocar la recompensa del día.
func (s *LedgerService) applyDecayIfDue(ctx context.Context, userID string, stats domain.UserStats, lastActivity, today time.Time) (domain.UserStats, error) {
	if lastActivity.IsZero() || !toDay(lastActivity).Before(today) {
		return stats, nil
	}
	decay, ok := DecayForInactivity(lastActivity, today, stats.TotalXP, s.cfg.DecayThresholdDays, s.cfg.DecayRate)
	if !ok {
		return stats, nil
	}
	if err := s.txs.Record(ctx, userID, decay); err != nil {
		return domain.UserStats{}, fmt.Errorf("record decay: %w", err)
	}
	stats = ApplyTransaction(stats, decay)
	s.logger.Info("decay applied",
		zap.String("user_id", userID),
		zap.Int("xp_lost", -decay.Amount),
		zap.Int("total_xp", stats.TotalXP),
	)
	return stats, nil
}

// capGain recorta una ganancia contra lo que queda del presupuesto diario.
// Si no queda nada la transacción degrada a no-op conservando la explicación.
func (s *LedgerService) capGain(ctx context.Context, userID string, today time.Time, tx domain.XPTransaction) (domain.XPTransaction, error) {
	gained, err := s.budget.Gained(ctx, userID, today)
	if err != nil {
		return domain.XPTransaction{}, fmt.Errorf("read daily budget: %w", err)
	}
	remaining := s.cfg.DailyXPCap - gained
	switch {
	case remaining <= 0:
		tx.Amount = 0
		tx.Reason += " (tope diario de XP alcanzado)"
	case tx.Amount > remaining:
		tx.Amount = remaining
		tx.Reason += " (limitado por tope diario)"
	}
	return tx, nil
}
