package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySnapshot represents one persisted (account, calendar month) valuation
// record. It is the only entity the snapshot engine owns and mutates.
//
// Month is normalized to the first day of the month at midnight UTC and,
// together with AccountID, identifies the row. Balance is the cash (or
// cost-basis) running total in the account's own currency. MarketValue is set
// only for accounts that hold securities and carries the holdings value at
// month-end; it is kept separate from Balance so callers can distinguish cost
// basis from current worth.
//
// An account's snapshot history is always rewritten whole: months form a
// contiguous run from the effective start month to the current month, and a
// recomputation deletes and reinserts the full set, never patching rows.
type MonthlySnapshot struct {
	AccountID   uuid.UUID
	Month       time.Time
	Balance     decimal.Decimal
	MarketValue *decimal.Decimal
}
