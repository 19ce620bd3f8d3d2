package holdings

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
	"github.com/valtrack/valtrack-backend/internal/usecase/pricing"
)

// closedEpsilon is the share-count magnitude below which a position counts as
// closed. Closed positions stay in the running map but never contribute value.
const closedEpsilon = 1e-8

// Positions maps security IDs to the share count held at one month boundary
type Positions map[uuid.UUID]float64

// Replay applies the account's investment transactions in date order and
// returns the share count per security at each month boundary.
//
// The cursor is local state: each call replays from scratch with its own
// forward-only index and running quantity map, so transactions are applied
// exactly once and never reprocessed for earlier boundaries. Transactions and
// boundaries must both be in ascending date order.
func Replay(txs []*domain.InvestmentTransaction, boundaries []time.Time) []Positions {
	held := make(Positions)
	snapshots := make([]Positions, 0, len(boundaries))

	cursor := 0
	for _, boundary := range boundaries {
		for cursor < len(txs) && !txs[cursor].Date.After(boundary) {
			if delta := txs[cursor].QuantityDelta(); delta != 0 {
				held[txs[cursor].SecurityID] += delta
			}
			cursor++
		}

		snapshot := make(Positions, len(held))
		for securityID, quantity := range held {
			snapshot[securityID] = quantity
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots
}

// MarketValue prices one boundary's positions at month-end.
// Securities whose share count magnitude is below the closed-position epsilon
// are skipped, and securities with no resolved price for the month contribute
// nothing to the sum (absence of data is not a zero price).
func MarketValue(positions Positions, prices *pricing.Index, monthEnd time.Time) decimal.Decimal {
	total := decimal.Zero
	for securityID, quantity := range positions {
		if math.Abs(quantity) < closedEpsilon {
			continue
		}
		price, ok := prices.PriceAsOf(securityID, monthEnd)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromFloat(quantity)))
	}
	return total
}

// SecurityIDs returns the distinct securities referenced by the transactions,
// in first-seen order.
func SecurityIDs(txs []*domain.InvestmentTransaction) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(txs))
	var ids []uuid.UUID
	for _, tx := range txs {
		if !seen[tx.SecurityID] {
			seen[tx.SecurityID] = true
			ids = append(ids, tx.SecurityID)
		}
	}
	return ids
}
