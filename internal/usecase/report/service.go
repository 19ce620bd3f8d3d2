package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valtrack/valtrack-backend/internal/domain"
	"github.com/valtrack/valtrack-backend/internal/usecase/rates"
	"github.com/valtrack/valtrack-backend/internal/usecase/recalc"
)

// Rate coverage is sparse, so the rate window is padded around the snapshot
// range: 90 days of history before the first month and 31 days after the last.
const (
	rateWindowDaysBefore = 90
	rateWindowDaysAfter  = 31
)

// NetWorthPoint is one month of the net worth series, in whole units of the
// display currency. NetWorth always equals Assets - Liabilities exactly, and
// Liabilities is never negative.
type NetWorthPoint struct {
	Month       time.Time
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	NetWorth    decimal.Decimal
}

// InvestmentPoint is one month of the portfolio value series, in whole units
// of the display currency
type InvestmentPoint struct {
	Month time.Time
	Value decimal.Decimal
}

// Service reads persisted snapshots, converts them into a display currency,
// and aggregates them into monthly net worth and portfolio series.
// Reads are independent of recomputation: a query may observe a snapshot set
// mid-rewrite, which is acceptable because recomputation is idempotent.
type Service struct {
	AccountRepo  domain.AccountRepository
	SnapshotRepo domain.SnapshotRepository
	SettingsRepo domain.UserSettingsRepository
	Rates        *rates.Service
	Recalc       *recalc.Service

	// Now bounds open-ended date ranges; overridable in tests
	Now func() time.Time
}

// NewService creates a new report Service instance
func NewService(
	accountRepo domain.AccountRepository,
	snapshotRepo domain.SnapshotRepository,
	settingsRepo domain.UserSettingsRepository,
	ratesService *rates.Service,
	recalcService *recalc.Service,
) *Service {
	return &Service{
		AccountRepo:  accountRepo,
		SnapshotRepo: snapshotRepo,
		SettingsRepo: settingsRepo,
		Rates:        ratesService,
		Recalc:       recalcService,
		Now:          time.Now,
	}
}

// GetMonthlyNetWorth returns the user's ordered monthly net worth series for
// the date range, converted into the user's display currency.
// Logic per snapshot row:
//  1. Select the valuation number by account class: brokerage accounts use
//     market value alone, standalone investment accounts use market value
//     plus balance (holdings plus uninvested cash), everything else uses
//     balance alone.
//  2. Convert it using the rate nearest to (but not after) the row's
//     month-end date.
//  3. Liability-typed accounts add to the liabilities total as an absolute
//     value; everything else adds to assets.
//
// Amounts are rounded to whole currency units at output.
func (s *Service) GetMonthlyNetWorth(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]NetWorthPoint, error) {
	if err := s.Recalc.EnsurePopulated(ctx, userID); err != nil {
		return nil, err
	}

	display, err := s.SettingsRepo.DisplayCurrency(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load display currency for user %s: %w", userID, err)
	}

	rows, accountsByID, err := s.loadRows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []NetWorthPoint{}, nil
	}

	index, err := s.buildRateIndex(ctx, display, rows, accountsByID)
	if err != nil {
		return nil, err
	}

	type totals struct {
		assets      decimal.Decimal
		liabilities decimal.Decimal
	}
	perMonth := make(map[time.Time]*totals)
	for _, row := range rows {
		account, ok := accountsByID[row.AccountID]
		if !ok {
			continue
		}

		converted := index.Convert(valuationFor(account, row), account.Currency, domain.MonthEnd(row.Month))

		monthTotals := perMonth[row.Month]
		if monthTotals == nil {
			monthTotals = &totals{assets: decimal.Zero, liabilities: decimal.Zero}
			perMonth[row.Month] = monthTotals
		}
		if account.Type.IsLiability() {
			monthTotals.liabilities = monthTotals.liabilities.Add(converted.Abs())
		} else {
			monthTotals.assets = monthTotals.assets.Add(converted)
		}
	}

	series := make([]NetWorthPoint, 0, len(perMonth))
	for month, monthTotals := range perMonth {
		assets := monthTotals.assets.Round(0)
		liabilities := monthTotals.liabilities.Round(0)
		series = append(series, NetWorthPoint{
			Month:       month,
			Assets:      assets,
			Liabilities: liabilities,
			NetWorth:    assets.Sub(liabilities),
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month.Before(series[j].Month) })

	return series, nil
}

// GetMonthlyInvestments returns the user's ordered monthly portfolio value
// series: the net worth flow restricted to investment-classified accounts
// (brokerage, standalone investment, and investment cash legs).
//
// accountIDs optionally narrows the result to specific accounts; each
// account's linked pair is included automatically, so filtering to a
// brokerage account also counts its cash leg. displayCurrency overrides the
// user preference when non-empty.
func (s *Service) GetMonthlyInvestments(ctx context.Context, userID uuid.UUID, start, end *time.Time, accountIDs []uuid.UUID, displayCurrency string) ([]InvestmentPoint, error) {
	if err := s.Recalc.EnsurePopulated(ctx, userID); err != nil {
		return nil, err
	}

	display := displayCurrency
	if display == "" {
		var err error
		display, err = s.SettingsRepo.DisplayCurrency(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load display currency for user %s: %w", userID, err)
		}
	}

	rows, accountsByID, err := s.loadRows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	included := includedInvestmentAccounts(accountsByID, accountIDs)

	filtered := make([]*domain.MonthlySnapshot, 0, len(rows))
	for _, row := range rows {
		if included[row.AccountID] {
			filtered = append(filtered, row)
		}
	}
	if len(filtered) == 0 {
		return []InvestmentPoint{}, nil
	}

	index, err := s.buildRateIndex(ctx, display, filtered, accountsByID)
	if err != nil {
		return nil, err
	}

	perMonth := make(map[time.Time]decimal.Decimal)
	for _, row := range filtered {
		account := accountsByID[row.AccountID]
		converted := index.Convert(valuationFor(account, row), account.Currency, domain.MonthEnd(row.Month))
		perMonth[row.Month] = perMonth[row.Month].Add(converted)
	}

	series := make([]InvestmentPoint, 0, len(perMonth))
	for month, value := range perMonth {
		series = append(series, InvestmentPoint{Month: month, Value: value.Round(0)})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month.Before(series[j].Month) })

	return series, nil
}

// loadRows fetches the user's snapshots for the resolved range along with an
// account lookup map. Open-ended ranges run from the beginning of history to
// the current month.
func (s *Service) loadRows(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*domain.MonthlySnapshot, map[uuid.UUID]*domain.Account, error) {
	from := time.Time{}
	if start != nil {
		from = domain.MonthStart(*start)
	}
	to := domain.MonthStart(s.Now())
	if end != nil {
		to = domain.MonthStart(*end)
	}

	rows, err := s.SnapshotRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshots for user %s: %w", userID, err)
	}

	accounts, err := s.AccountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}

	accountsByID := make(map[uuid.UUID]*domain.Account, len(accounts))
	for _, account := range accounts {
		accountsByID[account.ID] = account
	}
	return rows, accountsByID, nil
}

// buildRateIndex builds a rate index covering the distinct non-display
// currencies present in the rows, over the padded date window.
// rows must be non-empty and ordered by month.
func (s *Service) buildRateIndex(ctx context.Context, display string, rows []*domain.MonthlySnapshot, accountsByID map[uuid.UUID]*domain.Account) (*rates.Index, error) {
	seen := make(map[string]bool)
	var currencies []string
	for _, row := range rows {
		account, ok := accountsByID[row.AccountID]
		if !ok || account.Currency == display || seen[account.Currency] {
			continue
		}
		seen[account.Currency] = true
		currencies = append(currencies, account.Currency)
	}

	windowFrom := rows[0].Month.AddDate(0, 0, -rateWindowDaysBefore)
	windowTo := domain.MonthEnd(rows[len(rows)-1].Month).AddDate(0, 0, rateWindowDaysAfter)

	index, err := s.Rates.BuildIndex(ctx, display, currencies, windowFrom, windowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate index: %w", err)
	}
	return index, nil
}

// valuationFor selects the number a snapshot row contributes, by account class
func valuationFor(account *domain.Account, row *domain.MonthlySnapshot) decimal.Decimal {
	switch account.Class() {
	case domain.ClassBrokerage:
		// the cash leg is a separate account; only holdings count here
		if row.MarketValue != nil {
			return *row.MarketValue
		}
		return decimal.Zero
	case domain.ClassStandaloneInvestment:
		// holdings plus uninvested cash
		value := row.Balance
		if row.MarketValue != nil {
			value = value.Add(*row.MarketValue)
		}
		return value
	default:
		return row.Balance
	}
}

// includedInvestmentAccounts resolves which accounts the portfolio series
// covers: investment-classified accounts, optionally narrowed to a filter set
// expanded with each account's linked pair.
func includedInvestmentAccounts(accountsByID map[uuid.UUID]*domain.Account, accountIDs []uuid.UUID) map[uuid.UUID]bool {
	selected := make(map[uuid.UUID]bool, len(accountIDs))
	for _, id := range accountIDs {
		selected[id] = true
	}

	if len(accountIDs) > 0 {
		// pull in linked pairs, in both link directions
		for _, account := range accountsByID {
			if selected[account.ID] && account.LinkedAccountID != nil {
				selected[*account.LinkedAccountID] = true
			}
		}
		for _, account := range accountsByID {
			if account.LinkedAccountID != nil && selected[*account.LinkedAccountID] {
				selected[account.ID] = true
			}
		}
	}

	included := make(map[uuid.UUID]bool)
	for _, account := range accountsByID {
		if !isInvestmentClassified(account) {
			continue
		}
		if len(accountIDs) > 0 && !selected[account.ID] {
			continue
		}
		included[account.ID] = true
	}
	return included
}

// isInvestmentClassified reports whether the account belongs to the portfolio
// report: it holds securities or is the cash leg of a linked pair.
func isInvestmentClassified(account *domain.Account) bool {
	return account.HoldsSecurities() || account.SubType == domain.AccountSubTypeInvestmentCash
}
