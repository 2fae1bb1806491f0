package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habit-quest/internal/domain"
)

// ErrNotFound unifica el "no existe" de todas las implementaciones.
var ErrNotFound = errors.New("not found")

// StatsRepository persiste el par (stats, última actividad) por usuario.
type StatsRepository interface {
	Get(ctx context.Context, userID string) (domain.UserStats, time.Time, error)
	Save(ctx context.Context, userID string, stats domain.UserStats, lastActivity time.Time) error
}

type PgStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgStatsRepository(pool *pgxpool.Pool) *PgStatsRepository {
	return &PgStatsRepository{pool: pool}
}

func (r *PgStatsRepository) Get(ctx context.Context, userID string) (domain.UserStats, time.Time, error) {
	const query = `
		SELECT total_xp, level, last_activity
		FROM user_stats
		WHERE user_id = $1
	`
	var stats domain.UserStats
	var lastActivity time.Time
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.TotalXP,
		&stats.Level,
		&lastActivity,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserStats{}, time.Time{}, ErrNotFound
	}
	return stats, lastActivity, err
}

func (r *PgStatsRepository) Save(ctx context.Context, userID string, stats domain.UserStats, lastActivity time.Time) error {
	const query = `
		INSERT INTO user_stats (user_id, total_xp, level, last_activity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET total_xp = EXCLUDED.total_xp,
		    level = EXCLUDED.level,
		    last_activity = EXCLUDED.last_activity
	`
	_, err := r.pool.Exec(ctx, query, userID, stats.TotalXP, stats.Level, lastActivity)
	return err
}
