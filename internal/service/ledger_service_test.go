package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"habit-quest/internal/domain"
	"habit-quest/internal/repository"
)

type ledgerFixture struct {
	svc      *LedgerService
	stats    *repository.MemoryStatsRepository
	activity *repository.MemoryActivityRepository
	txs      *repository.MemoryTransactionRepository
	goals    *repository.MemoryGoalRepository
}

func newLedgerFixture() ledgerFixture {
	stats := repository.NewMemoryStatsRepository()
	activity := repository.NewMemoryActivityRepository()
	txs := repository.NewMemoryTransactionRepository()
	goals := repository.NewMemoryGoalRepository()
	svc := NewLedgerService(
		zap.NewNop(),
		stats, activity, txs, goals,
		NewMemoryDailyBudgetStore(),
		DefaultLedgerConfig(),
	)
	return ledgerFixture{svc: svc, stats: stats, activity: activity, txs: txs, goals: goals}
}

var testDay = time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

func TestCheckHabitRewardsAndLevels(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	stats, log, tx, err := f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: "correr", Difficulty: 3}, testDay, domain.CheckDone)
	if err != nil {
		t.Fatalf("CheckHabit: %v", err)
	}
	if tx.Amount != 30 {
		t.Fatalf("tx.Amount = %d; want 30", tx.Amount)
	}
	if stats.TotalXP != 30 || stats.Level != 1 {
		t.Fatalf("stats = %+v; want TotalXP=30 Level=1", stats)
	}
	if log.XPGained != 30 || len(log.Checks) != 1 {
		t.Fatalf("log = %+v; want XPGained=30 con un check", log)
	}
}

func TestCheckHabitDoneTwiceSameDayConflicts(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	habit := domain.Habit{Name: "meditar", Difficulty: 2}

	if _, _, _, err := f.svc.CheckHabit(ctx, "u1", habit, testDay, domain.CheckDone); err != nil {
		t.Fatalf("primer DONE: %v", err)
	}
	_, _, _, err := f.svc.CheckHabit(ctx, "u1", habit, testDay, domain.CheckDone)
	if !errors.Is(err, ErrHabitAlreadyRewarded) {
		t.Fatalf("segundo DONE err = %v; want ErrHabitAlreadyRewarded", err)
	}

	// MISSED después de DONE se acepta y castiga; no re-premia.
	stats, _, tx, err := f.svc.CheckHabit(ctx, "u1", habit, testDay, domain.CheckMissed)
	if err != nil {
		t.Fatalf("MISSED tras DONE: %v", err)
	}
	if tx.Amount != -30 {
		t.Fatalf("penalización = %d; want -30", tx.Amount)
	}
	if stats.TotalXP != 0 {
		t.Fatalf("TotalXP = %d; want 0 (20 - 30 acotado)", stats.TotalXP)
	}
}

func TestCheckHabitSameHabitNextDayRewardsAgain(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	habit := domain.Habit{Name: "leer", Difficulty: 1}

	if _, _, _, err := f.svc.CheckHabit(ctx, "u1", habit, testDay, domain.CheckDone); err != nil {
		t.Fatalf("día 1: %v", err)
	}
	stats, _, tx, err := f.svc.CheckHabit(ctx, "u1", habit, testDay.AddDate(0, 0, 1), domain.CheckDone)
	if err != nil {
		t.Fatalf("día 2: %v", err)
	}
	if tx.Amount != 10 || stats.TotalXP != 20 {
		t.Fatalf("tx=%d stats=%+v; want 10 y TotalXP=20", tx.Amount, stats)
	}
}

func TestCheckHabitDailyCap(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	// 30 + 40 enteros, el tercero de 40 solo recibe los 30 que quedan.
	gains := []struct {
		habit domain.Habit
		want  int
	}{
		{habit: domain.Habit{Name: "a", Difficulty: 3}, want: 30},
		{habit: domain.Habit{Name: "b", Difficulty: 4}, want: 40},
		{habit: domain.Habit{Name: "c", Difficulty: 4}, want: 30},
	}
	var stats domain.UserStats
	for _, g := range gains {
		var tx domain.XPTransaction
		var err error
		stats, _, tx, err = f.svc.CheckHabit(ctx, "u1", g.habit, testDay, domain.CheckDone)
		if err != nil {
			t.Fatalf("CheckHabit(%s): %v", g.habit.Name, err)
		}
		if tx.Amount != g.want {
			t.Fatalf("hábito %s otorgó %d; want %d", g.habit.Name, tx.Amount, g.want)
		}
	}
	if stats.TotalXP != 100 {
		t.Fatalf("TotalXP = %d; want 100 (tope diario)", stats.TotalXP)
	}

	// Con el tope agotado la ganancia degrada a no-op pero queda explicada.
	_, _, tx, err := f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: "d", Difficulty: 5}, testDay, domain.CheckDone)
	if err != nil {
		t.Fatalf("CheckHabit sobre el tope: %v", err)
	}
	if tx.Amount != 0 {
		t.Fatalf("tx.Amount = %d; want 0", tx.Amount)
	}
	if !strings.Contains(tx.Reason, "tope diario de XP alcanzado") {
		t.Fatalf("Reason = %q; debe explicar el tope", tx.Reason)
	}
	if !tx.IsNoop() {
		t.Fatalf("la transacción de ganancia cero debe ser no-op")
	}

	// Las penalizaciones no pasan por el tope.
	stats, _, tx, err = f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: "e", Difficulty: 2}, testDay, domain.CheckMissed)
	if err != nil {
		t.Fatalf("MISSED sobre el tope: %v", err)
	}
	if tx.Amount != -30 {
		t.Fatalf("penalización = %d; want -30", tx.Amount)
	}
	if stats.TotalXP != 70 {
		t.Fatalf("TotalXP = %d; want 70", stats.TotalXP)
	}
}

func TestCheckHabitCapResetsNextDay(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		if _, _, _, err := f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: name, Difficulty: 5}, testDay, domain.CheckDone); err != nil {
			t.Fatalf("CheckHabit(%s): %v", name, err)
		}
	}
	// Día siguiente: presupuesto fresco.
	_, _, tx, err := f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: "a", Difficulty: 5}, testDay.AddDate(0, 0, 1), domain.CheckDone)
	if err != nil {
		t.Fatalf("día siguiente: %v", err)
	}
	if tx.Amount != 50 {
		t.Fatalf("tx.Amount = %d; want 50", tx.Amount)
	}
}

func TestCheckHabitAppliesPendingDecay(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	lastActivity := testDay.AddDate(0, 0, -6)
	if err := f.stats.Save(ctx, "u1", domain.UserStats{TotalXP: 1000, Level: LevelForXP(1000)}, lastActivity); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	// 6 días inactivo, umbral 3: pierde 50+47+45 = 142 antes del castigo.
	stats, _, _, err := f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: "correr", Difficulty: 3}, testDay, domain.CheckMissed)
	if err != nil {
		t.Fatalf("CheckHabit: %v", err)
	}
	want := 1000 - 142 - 15
	if stats.TotalXP != want {
		t.Fatalf("TotalXP = %d; want %d", stats.TotalXP, want)
	}

	txs, err := f.txs.ListBetween(ctx, "u1", time.Time{}, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	foundDecay := false
	for _, tx := range txs {
		if tx.Source == domain.TxSourceDecay {
			foundDecay = true
			if tx.Amount != -142 {
				t.Fatalf("decaimiento = %d; want -142", tx.Amount)
			}
		}
	}
	if !foundDecay {
		t.Fatalf("no quedó registrada la transacción de decaimiento")
	}
}

func TestCheckHabitInvalidInput(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	valid := domain.Habit{Name: "leer", Difficulty: 3}

	tests := []struct {
		name   string
		userID string
		habit  domain.Habit
		date   time.Time
		result string
	}{
		{name: "empty user", userID: "", habit: valid, date: testDay, result: domain.CheckDone},
		{name: "empty habit name", userID: "u1", habit: domain.Habit{Difficulty: 3}, date: testDay, result: domain.CheckDone},
		{name: "difficulty too low", userID: "u1", habit: domain.Habit{Name: "x", Difficulty: 0}, date: testDay, result: domain.CheckDone},
		{name: "difficulty too high", userID: "u1", habit: domain.Habit{Name: "x", Difficulty: 6}, date: testDay, result: domain.CheckDone},
		{name: "unknown result", userID: "u1", habit: valid, date: testDay, result: "SKIPPED"},
		{name: "zero date", userID: "u1", habit: valid, result: domain.CheckDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := f.svc.CheckHabit(ctx, tt.userID, tt.habit, tt.date, tt.result)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v; want ErrInvalidInput", err)
			}
		})
	}
}

func TestAddGoalNoteCaps(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	goal := domain.Goal{
		ID:          "g1",
		Title:       "Aprender Go",
		StartDate:   testDay.AddDate(0, -1, 0),
		TargetDate:  testDay.AddDate(0, 2, 0),
		Importance:  4,
		TotalPoints: 200,
	}
	if err := f.goals.Create(ctx, "u1", goal); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	// Pide 25 pero el tope por meta es 10.
	stats, note, tx, err := f.svc.AddGoalNote(ctx, "u1", "g1", testDay, "avancé dos capítulos", 25)
	if err != nil {
		t.Fatalf("AddGoalNote: %v", err)
	}
	if tx.Amount != 10 || note.Points != 10 {
		t.Fatalf("otorgado = %d (nota %d); want 10", tx.Amount, note.Points)
	}
	if !strings.Contains(tx.Reason, "limitado por tope diario") {
		t.Fatalf("Reason = %q; debe explicar el recorte", tx.Reason)
	}
	if stats.TotalXP != 10 {
		t.Fatalf("TotalXP = %d; want 10", stats.TotalXP)
	}

	// Segunda nota el mismo día sobre la misma meta: conflicto.
	_, _, _, err = f.svc.AddGoalNote(ctx, "u1", "g1", testDay, "otra nota", 5)
	if !errors.Is(err, ErrNoteAlreadyExists) {
		t.Fatalf("err = %v; want ErrNoteAlreadyExists", err)
	}

	// Al día siguiente el presupuesto por meta se renueva.
	_, _, tx, err = f.svc.AddGoalNote(ctx, "u1", "g1", testDay.AddDate(0, 0, 1), "seguí avanzando", 7)
	if err != nil {
		t.Fatalf("nota día 2: %v", err)
	}
	if tx.Amount != 7 {
		t.Fatalf("otorgado día 2 = %d; want 7", tx.Amount)
	}
}

func TestAddGoalNoteSharesOverallDailyCap(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	goal := domain.Goal{ID: "g1", Title: "Meta", StartDate: testDay.AddDate(0, -1, 0), TargetDate: testDay.AddDate(0, 1, 0), Importance: 3, TotalPoints: 100}
	if err := f.goals.Create(ctx, "u1", goal); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	// Dos hábitos de dificultad 5 dejan el presupuesto global en 0.
	for _, name := range []string{"a", "b"} {
		if _, _, _, err := f.svc.CheckHabit(ctx, "u1", domain.Habit{Name: name, Difficulty: 5}, testDay, domain.CheckDone); err != nil {
			t.Fatalf("CheckHabit(%s): %v", name, err)
		}
	}

	_, note, tx, err := f.svc.AddGoalNote(ctx, "u1", "g1", testDay, "nota con tope agotado", 10)
	if err != nil {
		t.Fatalf("AddGoalNote: %v", err)
	}
	if tx.Amount != 0 || note.Points != 0 {
		t.Fatalf("otorgado = %d; want 0 con el tope global agotado", tx.Amount)
	}
	if !strings.Contains(tx.Reason, "tope diario de XP alcanzado") {
		t.Fatalf("Reason = %q; debe explicar el tope", tx.Reason)
	}
}

func TestAddGoalNoteUnknownGoal(t *testing.T) {
	f := newLedgerFixture()
	_, _, _, err := f.svc.AddGoalNote(context.Background(), "u1", "nope", testDay, "nota", 5)
	if !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("err = %v; want ErrGoalNotFound", err)
	}
}

func TestAddGoalNoteInvalidInput(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		goalID string
		text   string
		xp     int
	}{
		{name: "empty user", userID: "", goalID: "g1", text: "nota", xp: 5},
		{name: "empty goal", userID: "u1", goalID: "", text: "nota", xp: 5},
		{name: "empty text", userID: "u1", goalID: "g1", text: "  ", xp: 5},
		{name: "negative xp", userID: "u1", goalID: "g1", text: "nota", xp: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := f.svc.AddGoalNote(ctx, tt.userID, tt.goalID, testDay, tt.text, tt.xp)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v; want ErrInvalidInput", err)
			}
		})
	}
}
