package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `
	id, user_id, name, type, sub_type, currency, opening_balance,
	created_at, acquisition_date, linked_account_id, closed
`

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

// ListByUser retrieves every account belonging to a user, including closed accounts
func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// ListInvestment retrieves every account across all users that can hold
// securities. NULL and '' both mean "no sub-type": scanning maps either to
// AccountSubTypeNone, so the filter must accept both or a standalone
// investment account stored with '' would silently skip the global recompute.
func (r *accountRepository) ListInvestment(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE sub_type = $1 OR (type = $2 AND (sub_type IS NULL OR sub_type = ''))
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query,
		string(domain.AccountSubTypeBrokerage),
		string(domain.AccountTypeInvestment),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAccount maps one account row into the domain entity
func scanAccount(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	var subType, linkedID sql.NullString
	var acquisitionDate sql.NullTime
	var openingBalanceStr string

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&subType,
		&account.Currency,
		&openingBalanceStr,
		&account.CreatedAt,
		&acquisitionDate,
		&linkedID,
		&account.Closed,
	)
	if err != nil {
		return nil, err
	}

	if subType.Valid {
		account.SubType = domain.AccountSubType(subType.String)
	}
	if acquisitionDate.Valid {
		account.AcquisitionDate = &acquisitionDate.Time
	}
	if linkedID.Valid {
		linkedUUID, err := uuid.Parse(linkedID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse linked_account_id: %w", err)
		}
		account.LinkedAccountID = &linkedUUID
	}

	openingBalance, err := decimal.NewFromString(openingBalanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse opening_balance: %w", err)
	}
	account.OpeningBalance = openingBalance

	return &account, nil
}

func collectAccounts(rows *sql.Rows) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return accounts, nil
}
