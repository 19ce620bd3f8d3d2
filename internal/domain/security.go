package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Security represents a tradable instrument referenced by investment transactions.
// SkipPriceUpdates marks securities that never receive market quotes (e.g.
// private or illiquid holdings) and must be valued at their last transacted price.
type Security struct {
	ID               uuid.UUID
	Symbol           string
	SkipPriceUpdates bool
}

// PricePoint is one (security, date, close) row from market data history
type PricePoint struct {
	SecurityID uuid.UUID
	Date       time.Time
	Close      decimal.Decimal
}

// ExchangeRate stores the conversion rate between two currencies on a specific
// date. The table is sparse: a pair may be stored in only one direction, in
// which case the inverse rate has to be computed.
type ExchangeRate struct {
	FromCurrency string
	ToCurrency   string
	Date         time.Time
	Rate         decimal.Decimal
}
