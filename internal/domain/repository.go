package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines read access to the account directory.
// The snapshot engine never writes accounts.
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// ListByUser retrieves every account belonging to a user, including
	// closed accounts (closed accounts retain historically meaningful balances)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// ListInvestment retrieves every account across all users that can hold
	// securities (BROKERAGE sub-type, or INVESTMENT type with no sub-type)
	ListInvestment(ctx context.Context) ([]*Account, error)
}

// TransactionRepository defines read access to the cash transaction ledger
type TransactionRepository interface {
	// MonthlyNetAmounts returns the net signed transaction sum per calendar
	// month for an account, keyed by month start (first day, midnight UTC).
	// Voided transactions, split children, and transactions dated after asOf
	// are excluded.
	MonthlyNetAmounts(ctx context.Context, accountID uuid.UUID, asOf time.Time) (map[time.Time]decimal.Decimal, error)

	// EarliestDate returns the date of the account's earliest live top-level
	// transaction on or before asOf. ok is false when the account has none.
	EarliestDate(ctx context.Context, accountID uuid.UUID, asOf time.Time) (date time.Time, ok bool, err error)
}

// InvestmentTransactionRepository defines read access to the investment ledger
type InvestmentTransactionRepository interface {
	// ListByAccount retrieves an account's investment transactions in date order
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*InvestmentTransaction, error)

	// ListTradesBySecurities retrieves the priced BUY/SELL/REINVEST
	// transactions of the given securities across all accounts, in date
	// order. Used as the price source for skip-flagged securities.
	ListTradesBySecurities(ctx context.Context, securityIDs []uuid.UUID) ([]*InvestmentTransaction, error)
}

// SecurityRepository defines read access to security metadata
type SecurityRepository interface {
	// ListByIDs retrieves the securities with the given IDs
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Security, error)
}

// PriceRepository defines read access to market price history
type PriceRepository interface {
	// ListBySecurities retrieves all price points for the given securities in date order
	ListBySecurities(ctx context.Context, securityIDs []uuid.UUID) ([]*PricePoint, error)
}

// ExchangeRateRepository defines read access to the sparse exchange rate table
type ExchangeRateRepository interface {
	// ListByCurrencies retrieves all rates whose from and to currencies are
	// both in the given set, dated within [from, to], in date order
	ListByCurrencies(ctx context.Context, currencies []string, from, to time.Time) ([]*ExchangeRate, error)
}

// SnapshotRepository defines persistence for monthly snapshots, the one
// entity the engine owns
type SnapshotRepository interface {
	// ReplaceForAccount atomically deletes every existing snapshot row for
	// the account and inserts the given set inside one database transaction.
	// On failure the prior history is preserved unchanged.
	ReplaceForAccount(ctx context.Context, accountID uuid.UUID, snapshots []*MonthlySnapshot) error

	// ListByUser retrieves a user's snapshots with months within [from, to],
	// ordered by month then account
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*MonthlySnapshot, error)

	// CountByUser returns the total number of snapshot rows for a user's accounts
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// UserSettingsRepository defines read access to per-user preferences
type UserSettingsRepository interface {
	// DisplayCurrency returns the user's preferred reporting currency
	DisplayCurrency(ctx context.Context, userID uuid.UUID) (string, error)
}
