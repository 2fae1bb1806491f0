package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisBudgetAddScript = `
local current = redis.call("INCRBY", KEYS[1], ARGV[1])
if current == tonumber(ARGV[1]) then
  redis.call("EXPIRE", KEYS[1], ARGV[2])
end
return current
`

// Dos días de TTL: suficiente para que el presupuesto del día sobreviva
// cambios de zona horaria del caller sin acumular claves viejas.
const redisBudgetTTLSeconds = 2 * 24 * 60 * 60

type redisDailyBudgetStore struct {
	client *redis.Client
	prefix string
}

// NewRedisDailyBudgetStore crea un store respaldado en Redis para
// despliegues con más de una instancia del servicio.
func NewRedisDailyBudgetStore(client *redis.Client) DailyBudgetStore {
	if client == nil {
		return nil
	}
	return &redisDailyBudgetStore{
		client: client,
		prefix: "xp:budget:",
	}
}

func (s *redisDailyBudgetStore) redisKey(key string, day time.Time) string {
	return s.prefix + budgetKey(strings.TrimSpace(key), day)
}

func (s *redisDailyBudgetStore) Gained(ctx context.Context, key string, day time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	val, err := s.client.Get(ctx, s.redisKey(key, day)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

func (s *redisDailyBudgetStore) Add(ctx context.Context, key string, day time.Time, amount int) error {
	if amount == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	return s.client.Eval(ctx, redisBudgetAddScript,
		[]string{s.redisKey(key, day)},
		amount, redisBudgetTTLSeconds,
	).Err()
}
