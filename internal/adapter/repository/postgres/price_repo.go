package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	db *DB
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *DB) domain.PriceRepository {
	return &priceRepository{db: db}
}

// ListBySecurities retrieves all price points for the given securities in date order
func (r *priceRepository) ListBySecurities(ctx context.Context, securityIDs []uuid.UUID) ([]*domain.PricePoint, error) {
	if len(securityIDs) == 0 {
		return []*domain.PricePoint{}, nil
	}

	query := `
		SELECT security_id, date, close
		FROM security_prices
		WHERE security_id = ANY($1::uuid[])
		ORDER BY date, security_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(securityIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	points := make([]*domain.PricePoint, 0)
	for rows.Next() {
		var point domain.PricePoint
		var closeStr string

		if err := rows.Scan(&point.SecurityID, &point.Date, &closeStr); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}

		closePrice, err := decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close price: %w", err)
		}
		point.Close = closePrice

		points = append(points, &point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price rows: %w", err)
	}

	return points, nil
}
