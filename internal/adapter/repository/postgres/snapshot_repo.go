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

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// ReplaceForAccount atomically replaces the account's entire snapshot history.
// The delete and all inserts run inside one database transaction: readers
// never observe a partially rewritten history, and any failure rolls back to
// the prior complete set.
func (r *snapshotRepository) ReplaceForAccount(ctx context.Context, accountID uuid.UUID, snapshots []*domain.MonthlySnapshot) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	deleteQuery := `
		DELETE FROM monthly_snapshots
		WHERE account_id = $1
	`

	if _, err := dbTx.ExecContext(ctx, deleteQuery, accountID); err != nil {
		return fmt.Errorf("failed to delete existing snapshots: %w", err)
	}

	insertQuery := `
		INSERT INTO monthly_snapshots (account_id, month, balance, market_value)
		VALUES ($1, $2, $3, $4)
	`

	for _, snapshot := range snapshots {
		var marketValue interface{}
		if snapshot.MarketValue != nil {
			marketValue = snapshot.MarketValue.String()
		}

		_, err := dbTx.ExecContext(ctx, insertQuery,
			accountID,
			snapshot.Month,
			snapshot.Balance.String(),
			marketValue,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for month %s: %w", snapshot.Month.Format("2006-01"), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot replacement: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's snapshots with months within [from, to],
// ordered by month then account
func (r *snapshotRepository) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.MonthlySnapshot, error) {
	query := `
		SELECT s.account_id, s.month, s.balance, s.market_value
		FROM monthly_snapshots s
		JOIN accounts a ON a.id = s.account_id
		WHERE a.user_id = $1 AND s.month >= $2 AND s.month <= $3
		ORDER BY s.month, s.account_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.MonthlySnapshot, 0)
	for rows.Next() {
		var snapshot domain.MonthlySnapshot
		var balanceStr string
		var marketValueStr sql.NullString

		if err := rows.Scan(&snapshot.AccountID, &snapshot.Month, &balanceStr, &marketValueStr); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance: %w", err)
		}
		snapshot.Balance = balance

		if marketValueStr.Valid {
			marketValue, err := decimal.NewFromString(marketValueStr.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse market_value: %w", err)
			}
			snapshot.MarketValue = &marketValue
		}

		// normalize to first-of-month UTC regardless of column timezone
		snapshot.Month = domain.MonthStart(snapshot.Month)
		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

// CountByUser returns the total number of snapshot rows for a user's accounts
func (r *snapshotRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM monthly_snapshots s
		JOIN accounts a ON a.id = s.account_id
		WHERE a.user_id = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
