package service

import (
	"context"
	"sync"
	"time"
)

// DailyBudgetStore es el recurso compartido del que tiran los dos ledgers
// (hábitos y metas): cuánto XP lleva acreditado una clave en un día dado.
// La clave es el usuario para el tope diario global, o usuario+meta para
// el tope por meta. La atomicidad lectura-escritura la garantiza la
// disciplina de un solo escritor por usuario del ledger, no el store.
type DailyBudgetStore interface {
	Gained(ctx context.Context, key string, day time.Time) (int, error)
	Add(ctx context.Context, key string, day time.Time, amount int) error
}

type memoryDailyBudgetStore struct {
	mu    sync.Mutex
	items map[string]int
}

// NewMemoryDailyBudgetStore crea el store en memoria usado por defecto
// y en tests. No expira entradas; vive lo que vive el proceso.
func NewMemoryDailyBudgetStore() DailyBudgetStore {
	return &memoryDailyBudgetStore{items: make(map[string]int)}
}

func budgetKey(key string, day time.Time) string {
	return key + ":" + day.UTC().Format("2006-01-02")
}

func (s *memoryDailyBudgetStore) Gained(_ context.Context, key string, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[budgetKey(key, day)], nil
}

func (s *memoryDailyBudgetStore) Add(_ context.Context, key string, day time.Time, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[budgetKey(key, day)] += amount
	return nil
}
