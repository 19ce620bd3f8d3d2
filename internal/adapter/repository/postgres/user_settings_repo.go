package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// userSettingsRepository implements domain.UserSettingsRepository
type userSettingsRepository struct {
	db *DB
}

// NewUserSettingsRepository creates a new user settings repository
func NewUserSettingsRepository(db *DB) domain.UserSettingsRepository {
	return &userSettingsRepository{db: db}
}

// DisplayCurrency returns the user's preferred reporting currency
func (r *userSettingsRepository) DisplayCurrency(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `
		SELECT display_currency
		FROM user_settings
		WHERE user_id = $1
	`

	var currency string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("no settings found for user %s: %w", userID, err)
		}
		return "", fmt.Errorf("failed to get display currency: %w", err)
	}
	return currency, nil
}
