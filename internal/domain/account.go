package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of financial account
type AccountType string

const (
	AccountTypeChecking   AccountType = "CHECKING"
	AccountTypeSavings    AccountType = "SAVINGS"
	AccountTypeCash       AccountType = "CASH"
	AccountTypeCreditCard AccountType = "CREDIT_CARD"
	AccountTypeLoan       AccountType = "LOAN"
	AccountTypeTerm       AccountType = "TERM"
	AccountTypeInvestment AccountType = "INVESTMENT"
	AccountTypeAsset      AccountType = "ASSET"
	AccountTypeShares     AccountType = "SHARES"
)

// liabilityTypes is the fixed classification table mapping account types to
// the liability side of the net worth report. Everything else counts as an asset.
var liabilityTypes = map[AccountType]bool{
	AccountTypeCreditCard: true,
	AccountTypeLoan:       true,
}

// IsLiability reports whether balances of this account type count against net worth
func (t AccountType) IsLiability() bool {
	return liabilityTypes[t]
}

// AccountSubType distinguishes the two halves of a linked investment pair.
// An empty sub-type means the account has no special role.
type AccountSubType string

const (
	AccountSubTypeNone           AccountSubType = ""
	AccountSubTypeBrokerage      AccountSubType = "BROKERAGE"
	AccountSubTypeInvestmentCash AccountSubType = "INVESTMENT_CASH"
)

// AccountClass is the resolved valuation class of an account.
// It is computed once per account and passed down, never re-derived ad hoc.
type AccountClass int

const (
	// ClassRegular accounts are valued by their cash running balance alone.
	ClassRegular AccountClass = iota
	// ClassBrokerage accounts hold securities and are valued by market value alone;
	// their cash leg lives in a linked INVESTMENT_CASH account.
	ClassBrokerage
	// ClassStandaloneInvestment accounts hold securities and uninvested cash
	// together, and are valued by market value plus balance.
	ClassStandaloneInvestment
)

// Account represents a financial account in the domain layer.
// Accounts are read-only to the snapshot engine; only MonthlySnapshot rows are owned here.
type Account struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Type            AccountType
	SubType         AccountSubType
	Currency        string
	OpeningBalance  decimal.Decimal
	CreatedAt       time.Time
	AcquisitionDate *time.Time // ASSET accounts only; gates value before this date to zero
	LinkedAccountID *uuid.UUID // brokerage <-> cash-leg pairing
	Closed          bool
}

// Class resolves the account's valuation class.
// Logic:
//   - BROKERAGE sub-type -> ClassBrokerage
//   - INVESTMENT type with no sub-type -> ClassStandaloneInvestment
//   - everything else (including the cash leg of a pair) -> ClassRegular
func (a *Account) Class() AccountClass {
	switch {
	case a.SubType == AccountSubTypeBrokerage:
		return ClassBrokerage
	case a.Type == AccountTypeInvestment && a.SubType == AccountSubTypeNone:
		return ClassStandaloneInvestment
	default:
		return ClassRegular
	}
}

// HoldsSecurities reports whether the account carries investment transactions
// and therefore needs a market value series alongside its cash series.
func (a *Account) HoldsSecurities() bool {
	return a.Class() != ClassRegular
}
