package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// MonthlyNetAmounts aggregates the account's live top-level transactions into
// net signed sums per calendar month. Voided rows, split children (rows with
// a parent), and rows dated after asOf never count.
func (r *transactionRepository) MonthlyNetAmounts(ctx context.Context, accountID uuid.UUID, asOf time.Time) (map[time.Time]decimal.Decimal, error) {
	// month identity is UTC everywhere in the engine, so bucketing must not
	// depend on the session time zone
	query := `
		SELECT date_trunc('month', date AT TIME ZONE 'UTC')::date AS month, SUM(amount)
		FROM transactions
		WHERE account_id = $1
		  AND voided = FALSE
		  AND parent_id IS NULL
		  AND date <= $2
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly amounts: %w", err)
	}
	defer rows.Close()

	sums := make(map[time.Time]decimal.Decimal)
	for rows.Next() {
		var month time.Time
		var netStr string

		if err := rows.Scan(&month, &netStr); err != nil {
			return nil, fmt.Errorf("failed to scan monthly sum row: %w", err)
		}

		net, err := decimal.NewFromString(netStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse monthly sum: %w", err)
		}

		sums[domain.MonthStart(month)] = net
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly sum rows: %w", err)
	}

	return sums, nil
}

// EarliestDate returns the date of the account's earliest live top-level
// transaction on or before asOf
func (r *transactionRepository) EarliestDate(ctx context.Context, accountID uuid.UUID, asOf time.Time) (time.Time, bool, error) {
	query := `
		SELECT MIN(date)
		FROM transactions
		WHERE account_id = $1
		  AND voided = FALSE
		  AND parent_id IS NULL
		  AND date <= $2
	`

	var earliest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, accountID, asOf).Scan(&earliest); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to find earliest transaction date: %w", err)
	}
	if !earliest.Valid {
		return time.Time{}, false, nil
	}
	return earliest.Time, true, nil
}
