package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// investmentTransactionRepository implements domain.InvestmentTransactionRepository
type investmentTransactionRepository struct {
	db *DB
}

// NewInvestmentTransactionRepository creates a new investment transaction repository
func NewInvestmentTransactionRepository(db *DB) domain.InvestmentTransactionRepository {
	return &investmentTransactionRepository{db: db}
}

// ListByAccount retrieves an account's investment transactions in date order
func (r *investmentTransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	query := `
		SELECT id, account_id, security_id, action, quantity, price, date
		FROM investment_transactions
		WHERE account_id = $1
		ORDER BY date, id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment transactions: %w", err)
	}
	defer rows.Close()

	return collectInvestmentTransactions(rows)
}

// ListTradesBySecurities retrieves the priced BUY/SELL/REINVEST transactions
// of the given securities across all accounts, in date order. These rows feed
// last-transaction pricing for skip-flagged securities.
func (r *investmentTransactionRepository) ListTradesBySecurities(ctx context.Context, securityIDs []uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	if len(securityIDs) == 0 {
		return []*domain.InvestmentTransaction{}, nil
	}

	query := `
		SELECT id, account_id, security_id, action, quantity, price, date
		FROM investment_transactions
		WHERE security_id = ANY($1::uuid[])
		  AND action IN ($2, $3, $4)
		  AND price > 0
		ORDER BY date, id
	`

	rows, err := r.db.QueryContext(ctx, query,
		pq.Array(uuidStrings(securityIDs)),
		string(domain.ActionBuy),
		string(domain.ActionSell),
		string(domain.ActionReinvest),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades by securities: %w", err)
	}
	defer rows.Close()

	return collectInvestmentTransactions(rows)
}

func collectInvestmentTransactions(rows *sql.Rows) ([]*domain.InvestmentTransaction, error) {
	txs := make([]*domain.InvestmentTransaction, 0)
	for rows.Next() {
		var tx domain.InvestmentTransaction
		var priceStr string

		err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.SecurityID,
			&tx.Action,
			&tx.Quantity,
			&priceStr,
			&tx.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment transaction row: %w", err)
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		tx.Price = price

		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment transaction rows: %w", err)
	}
	return txs, nil
}

// uuidStrings converts UUIDs for use with pq.Array
func uuidStrings(ids []uuid.UUID) []string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return strs
}
