package balance

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) MonthlyNetAmounts(ctx context.Context, accountID uuid.UUID, asOf time.Time) (map[time.Time]decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Time]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) EarliestDate(ctx context.Context, accountID uuid.UUID, asOf time.Time) (time.Time, bool, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestSeries_RunningBalanceWithGapMonths(t *testing.T) {
	// Account opens with balance 1000 on 2024-01-10, one withdrawal of -200
	// on 2024-03-05: Jan and Feb hold 1000, March onward holds 800.
	ctx := context.Background()
	accountID := uuid.New()
	now := date(2024, time.May, 20)

	mockTxRepo := new(MockTransactionRepository)
	mockTxRepo.On("MonthlyNetAmounts", ctx, accountID, now).Return(map[time.Time]decimal.Decimal{
		date(2024, time.March, 1): decimal.NewFromInt(-200),
	}, nil)
	mockTxRepo.On("EarliestDate", ctx, accountID, now).Return(date(2024, time.March, 5), true, nil)

	account := &domain.Account{
		ID:             accountID,
		Type:           domain.AccountTypeChecking,
		OpeningBalance: decimal.NewFromInt(1000),
		CreatedAt:      date(2024, time.January, 10),
	}

	reconstructor := NewReconstructor(mockTxRepo)
	series, err := reconstructor.Series(ctx, account, now)
	assert.NoError(t, err)

	want := []Point{
		{Month: date(2024, time.January, 1), Balance: decimal.NewFromInt(1000)},
		{Month: date(2024, time.February, 1), Balance: decimal.NewFromInt(1000)},
		{Month: date(2024, time.March, 1), Balance: decimal.NewFromInt(800)},
		{Month: date(2024, time.April, 1), Balance: decimal.NewFromInt(800)},
		{Month: date(2024, time.May, 1), Balance: decimal.NewFromInt(800)},
	}
	if diff := cmp.Diff(want, series, decimalComparer); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestSeries_StartsAtEarliestTransactionBeforeCreation(t *testing.T) {
	// Imported history can predate the account record itself
	ctx := context.Background()
	accountID := uuid.New()
	now := date(2024, time.February, 15)

	mockTxRepo := new(MockTransactionRepository)
	mockTxRepo.On("MonthlyNetAmounts", ctx, accountID, now).Return(map[time.Time]decimal.Decimal{
		date(2023, time.November, 1): decimal.NewFromInt(500),
	}, nil)
	mockTxRepo.On("EarliestDate", ctx, accountID, now).Return(date(2023, time.November, 12), true, nil)

	account := &domain.Account{
		ID:             accountID,
		Type:           domain.AccountTypeSavings,
		OpeningBalance: decimal.Zero,
		CreatedAt:      date(2024, time.January, 3),
	}

	reconstructor := NewReconstructor(mockTxRepo)
	series, err := reconstructor.Series(ctx, account, now)
	assert.NoError(t, err)

	assert.Len(t, series, 4) // Nov, Dec, Jan, Feb: contiguous, no gaps
	assert.Equal(t, date(2023, time.November, 1), series[0].Month)
	assert.Equal(t, date(2024, time.February, 1), series[3].Month)
	for _, p := range series {
		assert.True(t, decimal.NewFromInt(500).Equal(p.Balance))
	}
}

func TestSeries_AssetAcquisitionGatesEarlierMonthsToZero(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	now := date(2024, time.June, 1)
	acquired := date(2024, time.March, 20)

	mockTxRepo := new(MockTransactionRepository)
	mockTxRepo.On("MonthlyNetAmounts", ctx, accountID, now).Return(map[time.Time]decimal.Decimal{}, nil)
	mockTxRepo.On("EarliestDate", ctx, accountID, now).Return(time.Time{}, false, nil)

	account := &domain.Account{
		ID:              accountID,
		Type:            domain.AccountTypeAsset,
		OpeningBalance:  decimal.NewFromInt(25000),
		CreatedAt:       date(2024, time.January, 5),
		AcquisitionDate: &acquired,
	}

	reconstructor := NewReconstructor(mockTxRepo)
	series, err := reconstructor.Series(ctx, account, now)
	assert.NoError(t, err)

	assert.Len(t, series, 6)
	// before the acquisition month the asset did not exist
	assert.True(t, series[0].Balance.IsZero(), "January should be zero")
	assert.True(t, series[1].Balance.IsZero(), "February should be zero")
	// the acquisition month onward reflects the running balance
	for _, p := range series[2:] {
		assert.True(t, decimal.NewFromInt(25000).Equal(p.Balance), "month %s", p.Month)
	}
}

func TestSeries_NoTransactionsUsesCreationDate(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	now := date(2024, time.March, 31)

	mockTxRepo := new(MockTransactionRepository)
	mockTxRepo.On("MonthlyNetAmounts", ctx, accountID, now).Return(map[time.Time]decimal.Decimal{}, nil)
	mockTxRepo.On("EarliestDate", ctx, accountID, now).Return(time.Time{}, false, nil)

	account := &domain.Account{
		ID:             accountID,
		Type:           domain.AccountTypeCash,
		OpeningBalance: decimal.NewFromInt(75),
		CreatedAt:      date(2024, time.February, 14),
	}

	reconstructor := NewReconstructor(mockTxRepo)
	series, err := reconstructor.Series(ctx, account, now)
	assert.NoError(t, err)

	assert.Len(t, series, 2)
	assert.Equal(t, date(2024, time.February, 1), series[0].Month)
	assert.True(t, decimal.NewFromInt(75).Equal(series[1].Balance))
}

func TestSeries_Idempotent(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	now := date(2024, time.April, 2)

	mockTxRepo := new(MockTransactionRepository)
	mockTxRepo.On("MonthlyNetAmounts", ctx, accountID, now).Return(map[time.Time]decimal.Decimal{
		date(2024, time.January, 1): decimal.NewFromInt(300),
		date(2024, time.March, 1):   decimal.NewFromInt(-120),
	}, nil)
	mockTxRepo.On("EarliestDate", ctx, accountID, now).Return(date(2024, time.January, 9), true, nil)

	account := &domain.Account{
		ID:             accountID,
		Type:           domain.AccountTypeChecking,
		OpeningBalance: decimal.NewFromInt(50),
		CreatedAt:      date(2024, time.January, 2),
	}

	reconstructor := NewReconstructor(mockTxRepo)
	first, err := reconstructor.Series(ctx, account, now)
	assert.NoError(t, err)
	second, err := reconstructor.Series(ctx, account, now)
	assert.NoError(t, err)

	if diff := cmp.Diff(first, second, decimalComparer); diff != "" {
		t.Errorf("recomputation drifted (-first +second):\n%s", diff)
	}
}
