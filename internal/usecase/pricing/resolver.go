package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// pricePoint is one dated unit price inside the index
type pricePoint struct {
	date  time.Time
	price decimal.Decimal
}

// Index answers "best known unit price as of date" queries per security.
// Lookups never look ahead: a target date earlier than every known price
// resolves to no price at all rather than borrowing from the future.
type Index struct {
	prices map[uuid.UUID][]pricePoint
}

// NewIndex creates an empty price index
func NewIndex() *Index {
	return &Index{prices: make(map[uuid.UUID][]pricePoint)}
}

// Add appends one dated price to a security's series.
// Prices must be added in ascending date order per security.
func (i *Index) Add(securityID uuid.UUID, date time.Time, price decimal.Decimal) {
	i.prices[securityID] = append(i.prices[securityID], pricePoint{date: date, price: price})
}

// Service builds price indexes, choosing the price source per security.
//
// Market-quoted securities are priced from price history rows. Securities
// flagged with SkipPriceUpdates never receive market quotes (private or
// illiquid holdings) and are priced from their own transacted BUY/SELL/
// REINVEST prices instead.
type Service struct {
	SecurityRepo     domain.SecurityRepository
	PriceRepo        domain.PriceRepository
	InvestmentTxRepo domain.InvestmentTransactionRepository
}

// NewService creates a new pricing Service instance
func NewService(
	securityRepo domain.SecurityRepository,
	priceRepo domain.PriceRepository,
	investmentTxRepo domain.InvestmentTransactionRepository,
) *Service {
	return &Service{
		SecurityRepo:     securityRepo,
		PriceRepo:        priceRepo,
		InvestmentTxRepo: investmentTxRepo,
	}
}

// BuildIndex loads the full dated price series for each given security from
// its designated source and arranges them for as-of lookup.
func (s *Service) BuildIndex(ctx context.Context, securityIDs []uuid.UUID) (*Index, error) {
	index := NewIndex()
	if len(securityIDs) == 0 {
		return index, nil
	}

	securities, err := s.SecurityRepo.ListByIDs(ctx, securityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load securities: %w", err)
	}

	// Split by price source flag.
	var marketIDs, lastTradeIDs []uuid.UUID
	for _, security := range securities {
		if security.SkipPriceUpdates {
			lastTradeIDs = append(lastTradeIDs, security.ID)
		} else {
			marketIDs = append(marketIDs, security.ID)
		}
	}

	if len(marketIDs) > 0 {
		points, err := s.PriceRepo.ListBySecurities(ctx, marketIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load price history: %w", err)
		}
		// Rows arrive in date order, so each security's series stays sorted.
		for _, p := range points {
			index.Add(p.SecurityID, p.Date, p.Close)
		}
	}

	if len(lastTradeIDs) > 0 {
		trades, err := s.InvestmentTxRepo.ListTradesBySecurities(ctx, lastTradeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load trade prices: %w", err)
		}
		for _, tx := range trades {
			if !tx.IsPricedTrade() {
				continue
			}
			index.Add(tx.SecurityID, tx.Date, tx.Price)
		}
	}

	return index, nil
}

// PriceAsOf returns the latest known unit price for the security dated on or
// before the target date. ok is false when no price is known by then.
func (i *Index) PriceAsOf(securityID uuid.UUID, target time.Time) (decimal.Decimal, bool) {
	points := i.prices[securityID]

	best := -1
	for idx, p := range points {
		if p.date.After(target) {
			break
		}
		best = idx
	}
	if best < 0 {
		return decimal.Zero, false
	}
	return points[best].price, true
}
