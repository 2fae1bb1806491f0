package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habit-quest/internal/domain"
)

// ActivityRepository persiste los registros diarios: XP ganado por fecha
// y los checks de hábitos de cada día.
type ActivityRepository interface {
	GetDailyLog(ctx context.Context, userID string, date time.Time) (domain.DailyActivityLog, error)
	UpsertDailyGain(ctx context.Context, userID string, date time.Time, xpGained int) error
	AddCheck(ctx context.Context, userID string, check domain.HabitCheck) error
	ListLogs(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyActivityLog, error)
	ListChecks(ctx context.Context, userID, habitName string, from, to time.Time) ([]domain.HabitCheck, error)
}

type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

func (r *PgActivityRepository) GetDailyLog(ctx context.Context, userID string, date time.Time) (domain.DailyActivityLog, error) {
	const query = `
		SELECT date, xp_gained
		FROM daily_logs
		WHERE user_id = $1 AND date = $2
	`
	var log domain.DailyActivityLog
	err := r.pool.QueryRow(ctx, query, userID, date).Scan(&log.Date, &log.XPGained)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DailyActivityLog{}, ErrNotFound
	}
	if err != nil {
		return domain.DailyActivityLog{}, err
	}

	checks, err := r.ListChecks(ctx, userID, "", date, date)
	if err != nil {
		return domain.DailyActivityLog{}, err
	}
	log.Checks = checks
	return log, nil
}

func (r *PgActivityRepository) UpsertDailyGain(ctx context.Context, userID string, date time.Time, xpGained int) error {
	const query = `
		INSERT INTO daily_logs (user_id, date, xp_gained)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE
		SET xp_gained = EXCLUDED.xp_gained
	`
	_, err := r.pool.Exec(ctx, query, userID, date, xpGained)
	return err
}

func (r *PgActivityRepository) AddCheck(ctx context.Context, userID string, check domain.HabitCheck) error {
	const query = `
		INSERT INTO habit_checks (id, user_id, habit_name, difficulty, date, result)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		check.ID,
		userID,
		check.Habit.Name,
		check.Habit.Difficulty,
		check.Date,
		check.Result,
	)
	return err
}

func (r *PgActivityRepository) ListLogs(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyActivityLog, error) {
	const query = `
		SELECT date, xp_gained
		FROM daily_logs
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.DailyActivityLog
	for rows.Next() {
		var log domain.DailyActivityLog
		if err := rows.Scan(&log.Date, &log.XPGained); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *PgActivityRepository) ListChecks(ctx context.Context, userID, habitName string, from, to time.Time) ([]domain.HabitCheck, error) {
	query := `
		SELECT id, habit_name, difficulty, date, result
		FROM habit_checks
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`
	args := []interface{}{userID, from, to}
	if habitName != "" {
		query += ` AND habit_name = $4`
		args = append(args, habitName)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []domain.HabitCheck
	for rows.Next() {
		var check domain.HabitCheck
		if err := rows.Scan(
			&check.ID,
			&check.Habit.Name,
			&check.Habit.Difficulty,
			&check.Date,
			&check.Result,
		); err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}
