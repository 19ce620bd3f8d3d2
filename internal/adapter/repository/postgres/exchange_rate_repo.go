package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// exchangeRateRepository implements domain.ExchangeRateRepository
type exchangeRateRepository struct {
	db *DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *DB) domain.ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

// ListByCurrencies retrieves all rates whose from and to currencies are both
// in the given set, dated within [from, to], in date order. The table is
// sparse: callers handle missing pairs and inverse-only storage.
func (r *exchangeRateRepository) ListByCurrencies(ctx context.Context, currencies []string, from, to time.Time) ([]*domain.ExchangeRate, error) {
	if len(currencies) == 0 {
		return []*domain.ExchangeRate{}, nil
	}

	query := `
		SELECT from_currency, to_currency, date, rate
		FROM exchange_rates
		WHERE from_currency = ANY($1)
		  AND to_currency = ANY($1)
		  AND date >= $2 AND date <= $3
		ORDER BY date, from_currency, to_currency
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(currencies), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.ExchangeRate, 0)
	for rows.Next() {
		var rate domain.ExchangeRate
		var rateStr string

		if err := rows.Scan(&rate.FromCurrency, &rate.ToCurrency, &rate.Date, &rateStr); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}

		value, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate: %w", err)
		}
		rate.Rate = value

		result = append(result, &rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rate rows: %w", err)
	}

	return result, nil
}
