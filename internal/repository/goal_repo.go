package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habit-quest/internal/domain"
)

// GoalRepository persiste metas y sus notas de progreso.
type GoalRepository interface {
	Create(ctx context.Context, userID string, goal domain.Goal) error
	GetByID(ctx context.Context, userID, goalID string) (domain.Goal, error)
	ListActive(ctx context.Context, userID string, ref time.Time) ([]domain.Goal, error)
	AddNote(ctx context.Context, userID string, note domain.GoalNote) error
	NoteExists(ctx context.Context, userID, goalID string, date time.Time) (bool, error)
	ListNotes(ctx context.Context, userID, goalID string) ([]domain.GoalNote, error)
}

type PgGoalRepository struct {
	pool *pgxpool.Pool
}

func NewPgGoalRepository(pool *pgxpool.Pool) *PgGoalRepository {
	return &PgGoalRepository{pool: pool}
}

func (r *PgGoalRepository) Create(ctx context.Context, userID string, goal domain.Goal) error {
	const query = `
		INSERT INTO goals (id, user_id, title, description, start_date, target_date, importance, total_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		goal.ID,
		userID,
		goal.Title,
		goal.Description,
		goal.StartDate,
		goal.TargetDate,
		goal.Importance,
		goal.TotalPoints,
	)
	return err
}

func (r *PgGoalRepository) GetByID(ctx context.Context, userID, goalID string) (domain.Goal, error) {
	const query = `
		SELECT id, title, description, start_date, target_date, importance, total_points
		FROM goals
		WHERE user_id = $1 AND id = $2
	`
	var goal domain.Goal
	err := r.pool.QueryRow(ctx, query, userID, goalID).Scan(
		&goal.ID,
		&goal.Title,
		&goal.Description,
		&goal.StartDate,
		&goal.TargetDate,
		&goal.Importance,
		&goal.TotalPoints,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Goal{}, ErrNotFound
	}
	return goal, err
}

func (r *PgGoalRepository) ListActive(ctx context.Context, userID string, ref time.Time) ([]domain.Goal, error) {
	const query = `
		SELECT id, title, description, start_date, target_date, importance, total_points
		FROM goals
		WHERE user_id = $1 AND start_date <= $2 AND target_date >= $2
		ORDER BY start_date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var goal domain.Goal
		if err := rows.Scan(
			&goal.ID,
			&goal.Title,
			&goal.Description,
			&goal.StartDate,
			&goal.TargetDate,
			&goal.Importance,
			&goal.TotalPoints,
		); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *PgGoalRepository) AddNote(ctx context.Context, userID string, note domain.GoalNote) error {
	const query = `
		INSERT INTO goal_notes (id, user_id, goal_id, date, text, points)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		note.ID,
		userID,
		note.GoalID,
		note.Date,
		note.Text,
		note.Points,
	)
	return err
}

func (r *PgGoalRepository) NoteExists(ctx context.Context, userID, goalID string, date time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM goal_notes
			WHERE user_id = $1 AND goal_id = $2 AND date = $3
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, goalID, date).Scan(&exists)
	return exists, err
}

func (r *PgGoalRepository) ListNotes(ctx context.Context, userID, goalID string) ([]domain.GoalNote, error) {
	const query = `
		SELECT id, goal_id, date, text, points
		FROM goal_notes
		WHERE user_id = $1 AND goal_id = $2
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.GoalNote
	for rows.Next() {
		var note domain.GoalNote
		if err := rows.Scan(&note.ID, &note.GoalID, &note.Date, &note.Text, &note.Points); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
