package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// securityRepository implements domain.SecurityRepository
type securityRepository struct {
	db *DB
}

// NewSecurityRepository creates a new security repository
func NewSecurityRepository(db *DB) domain.SecurityRepository {
	return &securityRepository{db: db}
}

// ListByIDs retrieves the securities with the given IDs
func (r *securityRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Security, error) {
	if len(ids) == 0 {
		return []*domain.Security{}, nil
	}

	query := `
		SELECT id, symbol, skip_price_updates
		FROM securities
		WHERE id = ANY($1::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	defer rows.Close()

	securities := make([]*domain.Security, 0, len(ids))
	for rows.Next() {
		var security domain.Security
		if err := rows.Scan(&security.ID, &security.Symbol, &security.SkipPriceUpdates); err != nil {
			return nil, fmt.Errorf("failed to scan security row: %w", err)
		}
		securities = append(securities, &security)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate security rows: %w", err)
	}

	return securities, nil
}
