package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habit-quest/internal/domain"
)

// TransactionRepository guarda el historial inmutable de transacciones de XP.
type TransactionRepository interface {
	Record(ctx context.Context, userID string, tx domain.XPTransaction) error
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.XPTransaction, error)
}

type PgTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewPgTransactionRepository(pool *pgxpool.Pool) *PgTransactionRepository {
	return &PgTransactionRepository{pool: pool}
}

func (r *PgTransactionRepository) Record(ctx context.Context, userID string, tx domain.XPTransaction) error {
	const query = `
		INSERT INTO xp_transactions (id, user_id, amount, reason, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		tx.ID,
		userID,
		tx.Amount,
		tx.Reason,
		tx.Source,
		tx.CreatedAt,
	)
	return err
}

func (r *PgTransactionRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.XPTransaction, error) {
	const query = `
		SELECT id, amount, reason, source, created_at
		FROM xp_transactions
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.XPTransaction
	for rows.Next() {
		var tx domain.XPTransaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Reason, &tx.Source, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
