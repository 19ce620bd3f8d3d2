package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// Point is one month of a reconstructed balance series
type Point struct {
	Month   time.Time
	Balance decimal.Decimal
}

// Reconstructor computes month-by-month running balances for a single account
// from its opening balance plus signed transaction amounts, in a single
// aggregate-and-accumulate pass.
type Reconstructor struct {
	TransactionRepo domain.TransactionRepository
}

// NewReconstructor creates a new Reconstructor instance
func NewReconstructor(transactionRepo domain.TransactionRepository) *Reconstructor {
	return &Reconstructor{TransactionRepo: transactionRepo}
}

// Series reconstructs the account's monthly running balance from its
// effective start month through the month of now, inclusive.
// Logic:
//  1. Aggregate live top-level transactions into per-month net sums.
//  2. Start from the effective start date (earliest transaction, pulled
//     earlier by an ASSET acquisition date, else the account creation date).
//  3. Accumulate: each month's balance = opening balance + cumulative net sums
//     up to and including that month. Months without transactions carry the
//     prior balance forward.
//  4. For ASSET accounts with an acquisition date, months strictly before the
//     acquisition month are forced to zero: the value did not exist yet.
func (r *Reconstructor) Series(ctx context.Context, account *domain.Account, now time.Time) ([]Point, error) {
	sums, err := r.TransactionRepo.MonthlyNetAmounts(ctx, account.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions for account %s: %w", account.ID, err)
	}

	earliest, hasTransactions, err := r.TransactionRepo.EarliestDate(ctx, account.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest transaction for account %s: %w", account.ID, err)
	}

	start := effectiveStart(account, earliest, hasTransactions)
	months := domain.MonthsBetween(start, now)

	var acquisitionMonth *time.Time
	if account.Type == domain.AccountTypeAsset && account.AcquisitionDate != nil {
		m := domain.MonthStart(*account.AcquisitionDate)
		acquisitionMonth = &m
	}

	series := make([]Point, 0, len(months))
	running := account.OpeningBalance
	for _, month := range months {
		if net, ok := sums[month]; ok {
			running = running.Add(net)
		}

		value := running
		if acquisitionMonth != nil && month.Before(*acquisitionMonth) {
			value = decimal.Zero
		}

		series = append(series, Point{Month: month, Balance: value})
	}

	return series, nil
}

// effectiveStart picks the earliest of the account creation date, the first
// live transaction, and an ASSET acquisition date.
func effectiveStart(account *domain.Account, earliestTx time.Time, hasTransactions bool) time.Time {
	start := account.CreatedAt
	if hasTransactions && earliestTx.Before(start) {
		start = earliestTx
	}
	if account.Type == domain.AccountTypeAsset && account.AcquisitionDate != nil && account.AcquisitionDate.Before(start) {
		start = *account.AcquisitionDate
	}
	return start
}
