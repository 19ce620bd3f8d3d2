package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// ratePoint is one dated rate inside the index
type ratePoint struct {
	date time.Time
	rate decimal.Decimal
}

// Index is an in-memory lookup structure mapping currency pair to a
// date-ordered list of rates, answering "best known conversion rate as of
// date" queries into a single target currency.
type Index struct {
	target string
	pairs  map[string][]ratePoint
}

// Service builds rate indexes from the exchange rate table
type Service struct {
	RateRepo domain.ExchangeRateRepository
}

// NewService creates a new rates Service instance
func NewService(rateRepo domain.ExchangeRateRepository) *Service {
	return &Service{RateRepo: rateRepo}
}

// BuildIndex loads every stored rate between the given currencies and the
// target currency dated within [from, to] and arranges them for as-of lookup.
// Currencies equal to the target are ignored; an index with no pairs still
// answers Convert (amounts pass through unconverted).
func (s *Service) BuildIndex(ctx context.Context, target string, currencies []string, from, to time.Time) (*Index, error) {
	index := &Index{
		target: target,
		pairs:  make(map[string][]ratePoint),
	}

	// Deduplicate and drop the target itself; no foreign currencies means
	// nothing to load.
	seen := map[string]bool{target: true}
	wanted := []string{target}
	for _, currency := range currencies {
		if !seen[currency] {
			seen[currency] = true
			wanted = append(wanted, currency)
		}
	}
	if len(wanted) == 1 {
		return index, nil
	}

	rows, err := s.RateRepo.ListByCurrencies(ctx, wanted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}

	// Rows arrive in date order, so each pair's slice stays sorted.
	for _, row := range rows {
		key := pairKey(row.FromCurrency, row.ToCurrency)
		index.pairs[key] = append(index.pairs[key], ratePoint{date: row.Date, rate: row.Rate})
	}

	return index, nil
}

// Convert converts amount from the given currency into the index's target
// currency using the rate nearest to (but not after) asOf.
// Logic:
//  1. Same currency: returned unchanged.
//  2. Direct pair stored: amount * rate.
//  3. Only the reverse pair stored: amount / rate (inverse of the stored direction).
//  4. No rate in either direction: the raw amount passes through unconverted,
//     a degraded-but-non-fatal outcome.
func (i *Index) Convert(amount decimal.Decimal, from string, asOf time.Time) decimal.Decimal {
	if from == i.target {
		return amount
	}
	if rate, ok := i.lookup(from, i.target, asOf); ok {
		return amount.Mul(rate)
	}
	if rate, ok := i.lookup(i.target, from, asOf); ok && !rate.IsZero() {
		return amount.Div(rate)
	}
	return amount
}

// HasPair reports whether any rate is stored for the currency in either
// direction. Callers can surface missing coverage as a data-quality signal.
func (i *Index) HasPair(from string) bool {
	if from == i.target {
		return true
	}
	return len(i.pairs[pairKey(from, i.target)]) > 0 || len(i.pairs[pairKey(i.target, from)]) > 0
}

// lookup returns the latest rate dated on or before asOf for the pair,
// falling back to the earliest available rate when every stored rate is
// later than asOf.
func (i *Index) lookup(from, to string, asOf time.Time) (decimal.Decimal, bool) {
	points := i.pairs[pairKey(from, to)]
	if len(points) == 0 {
		return decimal.Zero, false
	}

	best := -1
	for idx, p := range points {
		if p.date.After(asOf) {
			break
		}
		best = idx
	}
	if best >= 0 {
		return points[best].rate, true
	}

	// Every known rate is in the future: use the earliest one rather than
	// failing the conversion.
	return points[0].rate, true
}

func pairKey(from, to string) string {
	return from + "/" + to
}
