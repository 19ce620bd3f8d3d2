package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents one cash posting against an account.
// The amount is signed: deposits positive, withdrawals negative.
// Transactions are read-only to the snapshot engine.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Amount    decimal.Decimal // signed
	Date      time.Time
	Voided    bool
	ParentID  *uuid.UUID // non-nil for split children, which are excluded from top-level sums
}

// InvestmentAction identifies what an investment transaction does to a position
type InvestmentAction string

const (
	ActionBuy          InvestmentAction = "BUY"
	ActionSell         InvestmentAction = "SELL"
	ActionReinvest     InvestmentAction = "REINVEST"
	ActionSplit        InvestmentAction = "SPLIT"
	ActionTransferIn   InvestmentAction = "TRANSFER_IN"
	ActionTransferOut  InvestmentAction = "TRANSFER_OUT"
	ActionDividend     InvestmentAction = "DIVIDEND"
	ActionInterest     InvestmentAction = "INTEREST"
	ActionCapitalGain  InvestmentAction = "CAPITAL_GAIN"
	ActionAddShares    InvestmentAction = "ADD_SHARES"
	ActionRemoveShares InvestmentAction = "REMOVE_SHARES"
)

// InvestmentTransaction represents one trade or corporate action on a security.
// Quantity is a floating share count; Price is the per-unit transacted price.
// Investment transactions are read-only to the snapshot engine.
type InvestmentTransaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	SecurityID uuid.UUID
	Action     InvestmentAction
	Quantity   float64
	Price      decimal.Decimal
	Date       time.Time
}

// QuantityDelta returns the signed share-count change this transaction applies
// during holdings replay, or 0 when the action does not affect holdings.
// For SPLIT the quantity field already holds a signed adjustment and is added directly.
func (t *InvestmentTransaction) QuantityDelta() float64 {
	switch t.Action {
	case ActionBuy, ActionReinvest, ActionTransferIn:
		return t.Quantity
	case ActionSell, ActionTransferOut:
		return -t.Quantity
	case ActionSplit:
		return t.Quantity
	default:
		return 0
	}
}

// IsPricedTrade reports whether the transaction carries a usable transacted
// price for last-transaction valuation (quantity-bearing trades only).
func (t *InvestmentTransaction) IsPricedTrade() bool {
	switch t.Action {
	case ActionBuy, ActionSell, ActionReinvest:
		return t.Price.GreaterThan(decimal.Zero)
	default:
		return false
	}
}
