package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"habit-quest/internal/domain"
)

// Implementaciones en memoria de todos los repositorios. Sirven para
// tests y para correr el servicio sin base de datos configurada.
// La disciplina de un solo escritor por usuario vive en el ledger;
// aquí el mutex solo protege los mapas.

type MemoryStatsRepository struct {
	mu    sync.Mutex
	stats map[string]domain.UserStats
	last  map[string]time.Time
}

func NewMemoryStatsRepository() *MemoryStatsRepository {
	return &MemoryStatsRepository{
		stats: make(map[string]domain.UserStats),
		last:  make(map[string]time.Time),
	}
}

func (r *MemoryStatsRepository) Get(_ context.Context, userID string) (domain.UserStats, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		return domain.UserStats{}, time.Time{}, ErrNotFound
	}
	return stats, r.last[userID], nil
}

func (r *MemoryStatsRepository) Save(_ context.Context, userID string, stats domain.UserStats, lastActivity time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[userID] = stats
	r.last[userID] = lastActivity
	return nil
}

type MemoryActivityRepository struct {
	mu     sync.Mutex
	gains  map[string]map[time.Time]int
	checks map[string][]domain.HabitCheck
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{
		gains:  make(map[string]map[time.Time]int),
		checks: make(map[string][]domain.HabitCheck),
	}
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *MemoryActivityRepository) GetDailyLog(_ context.Context, userID string, date time.Time) (domain.DailyActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := day(date)
	gains, ok := r.gains[userID][d]
	var checks []domain.HabitCheck
	for _, c := range r.checks[userID] {
		if day(c.Date).Equal(d) {
			checks = append(checks, c)
		}
	}
	if !ok && len(checks) == 0 {
		return domain.DailyActivityLog{}, ErrNotFound
	}
	return domain.DailyActivityLog{Date: d, XPGained: gains, Checks: checks}, nil
}

func (r *MemoryActivityRepository) UpsertDailyGain(_ context.Context, userID string, date time.Time, xpGained int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gains[userID] == nil {
		r.gains[userID] = make(map[time.Time]int)
	}
	r.gains[userID][day(date)] = xpGained
	return nil
}

func (r *MemoryActivityRepository) AddCheck(_ context.Context, userID string, check domain.HabitCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	check.Date = day(check.Date)
	r.checks[userID] = append(r.checks[userID], check)
	return nil
}

func (r *MemoryActivityRepository) ListLogs(_ context.Context, userID string, from, to time.Time) ([]domain.DailyActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var logs []domain.DailyActivityLog
	for d, gained := range r.gains[userID] {
		if d.Before(day(from)) || d.After(day(to)) {
			continue
		}
		logs = append(logs, domain.DailyActivityLog{Date: d, XPGained: gained})
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

func (r *MemoryActivityRepository) ListChecks(_ context.Context, userID, habitName string, from, to time.Time) ([]domain.HabitCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var checks []domain.HabitCheck
	for _, c := range r.checks[userID] {
		if habitName != "" && c.Habit.Name != habitName {
			continue
		}
		if c.Date.Before(day(from)) || c.Date.After(day(to)) {
			continue
		}
		checks = append(checks, c)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].Date.Before(checks[j].Date) })
	return checks, nil
}

type MemoryTransactionRepository struct {
	mu  sync.Mutex
	txs map[string][]domain.XPTransaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{
		txs: make(map[string][]domain.XPTransaction),
	}
}

func (r *MemoryTransactionRepository) Record(_ context.Context, userID string, tx domain.XPTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[userID] = append(r.txs[userID], tx)
	return nil
}

func (r *MemoryTransactionRepository) ListBetween(_ context.Context, userID string, from, to time.Time) ([]domain.XPTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.XPTransaction
	for _, tx := range r.txs[userID] {
		if tx.CreatedAt.Before(from) || tx.CreatedAt.After(to) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type MemoryGoalRepository struct {
	mu    sync.Mutex
	goals map[string][]domain.Goal
	notes map[string][]domain.GoalNote
}

func NewMemoryGoalRepository() *MemoryGoalRepository {
	return &MemoryGoalRepository{
		goals: make(map[string][]domain.Goal),
		notes: make(map[string][]domain.GoalNote),
	}
}

func (r *MemoryGoalRepository) Create(_ context.Context, userID string, goal domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[userID] = append(r.goals[userID], goal)
	return nil
}

func (r *MemoryGoalRepository) GetByID(_ context.Context, userID, goalID string) (domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.goals[userID] {
		if g.ID == goalID {
			return g, nil
		}
	}
	return domain.Goal{}, ErrNotFound
}

func (r *MemoryGoalRepository) ListActive(_ context.Context, userID string, ref time.Time) ([]domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Goal
	for _, g := range r.goals[userID] {
		if !g.StartDate.After(ref) && !g.TargetDate.Before(ref) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *MemoryGoalRepository) AddNote(_ context.Context, userID string, note domain.GoalNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.Date = day(note.Date)
	r.notes[userID] = append(r.notes[userID], note)
	return nil
}

func (r *MemoryGoalRepository) NoteExists(_ context.Context, userID, goalID string, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := day(date)
	for _, n := range r.notes[userID] {
		if n.GoalID == goalID && n.Date.Equal(d) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryGoalRepository) ListNotes(_ context.Context, userID, goalID string) ([]domain.GoalNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GoalNote
	for _, n := range r.notes[userID] {
		if n.GoalID == goalID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
