package recalc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/valtrack/valtrack-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListInvestment(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

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

// MockInvestmentTransactionRepository is a mock implementation of InvestmentTransactionRepository for testing
type MockInvestmentTransactionRepository struct {
	mock.Mock
}

func (m *MockInvestmentTransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestmentTransaction), args.Error(1)
}

func (m *MockInvestmentTransactionRepository) ListTradesBySecurities(ctx context.Context, securityIDs []uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	args := m.Called(ctx, securityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestmentTransaction), args.Error(1)
}

// MockSecurityRepository is a mock implementation of SecurityRepository for testing
type MockSecurityRepository struct {
	mock.Mock
}

func (m *MockSecurityRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Security, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Security), args.Error(1)
}

// MockPriceRepository is a mock implementation of PriceRepository for testing
type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) ListBySecurities(ctx context.Context, securityIDs []uuid.UUID) ([]*domain.PricePoint, error) {
	args := m.Called(ctx, securityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PricePoint), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) ReplaceForAccount(ctx context.Context, accountID uuid.UUID, snapshots []*domain.MonthlySnapshot) error {
	args := m.Called(ctx, accountID, snapshots)
	return args.Error(0)
}

func (m *MockSnapshotRepository) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.MonthlySnapshot, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonthlySnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
