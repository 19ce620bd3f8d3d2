package recalc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valtrack/valtrack-backend/internal/domain"
	"github.com/valtrack/valtrack-backend/internal/usecase/balance"
	"github.com/valtrack/valtrack-backend/internal/usecase/holdings"
	"github.com/valtrack/valtrack-backend/internal/usecase/pricing"
)

// Service drives snapshot recomputation. It classifies each account, runs the
// matching reconstruction pipeline, and hands the complete history to the
// snapshot writer in one atomic replace.
//
// Recomputation is idempotent: rerunning with unchanged underlying data
// produces identical snapshot rows. Concurrent recomputation of the same
// account is not supported; callers serialize per account (the background
// Queue runs one task at a time).
type Service struct {
	AccountRepo      domain.AccountRepository
	SnapshotRepo     domain.SnapshotRepository
	InvestmentTxRepo domain.InvestmentTransactionRepository
	Reconstructor    *balance.Reconstructor
	Pricing          *pricing.Service

	Log zerolog.Logger

	// Now is the clock used to bound the snapshot grid; overridable in tests
	Now func() time.Time
}

// NewService creates a new recalculation Service instance
func NewService(
	accountRepo domain.AccountRepository,
	snapshotRepo domain.SnapshotRepository,
	investmentTxRepo domain.InvestmentTransactionRepository,
	reconstructor *balance.Reconstructor,
	pricingService *pricing.Service,
	log zerolog.Logger,
) *Service {
	return &Service{
		AccountRepo:      accountRepo,
		SnapshotRepo:     snapshotRepo,
		InvestmentTxRepo: investmentTxRepo,
		Reconstructor:    reconstructor,
		Pricing:          pricingService,
		Log:              log,
		Now:              time.Now,
	}
}

// RecalculateAccount recomputes one account's full snapshot history,
// replacing whatever was persisted before. Errors propagate so the caller
// knows the account's history is stale.
func (s *Service) RecalculateAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if account.UserID != userID {
		return fmt.Errorf("account %s does not belong to user %s", accountID, userID)
	}
	return s.recalculate(ctx, account)
}

// RecalculateAllAccounts recomputes every account belonging to the user,
// including closed accounts. Each account runs as its own task; one account's
// failure is logged and skipped, never aborting the batch.
func (s *Service) RecalculateAllAccounts(ctx context.Context, userID uuid.UUID) error {
	accounts, err := s.AccountRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	s.recalculateBatch(ctx, accounts)
	return nil
}

// RecalculateAllInvestmentSnapshots recomputes every brokerage and standalone
// investment account across all users. Triggered after a global price refresh.
func (s *Service) RecalculateAllInvestmentSnapshots(ctx context.Context) error {
	accounts, err := s.AccountRepo.ListInvestment(ctx)
	if err != nil {
		return fmt.Errorf("failed to list investment accounts: %w", err)
	}
	s.recalculateBatch(ctx, accounts)
	return nil
}

// EnsurePopulated recomputes the user's snapshots only when none exist yet,
// so read paths can lazily trigger a first population without redundant work
// on every request.
func (s *Service) EnsurePopulated(ctx context.Context, userID uuid.UUID) error {
	count, err := s.SnapshotRepo.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count snapshots for user %s: %w", userID, err)
	}
	if count > 0 {
		return nil
	}
	return s.RecalculateAllAccounts(ctx, userID)
}

// recalculateBatch fans out one task per account and isolates failures
func (s *Service) recalculateBatch(ctx context.Context, accounts []*domain.Account) {
	var wg sync.WaitGroup
	for _, account := range accounts {
		wg.Add(1)
		go func(account *domain.Account) {
			defer wg.Done()
			if err := s.recalculate(ctx, account); err != nil {
				s.Log.Error().
					Str("account_id", account.ID.String()).
					Err(err).
					Msg("account recalculation failed, skipping")
			}
		}(account)
	}
	wg.Wait()
}

// recalculate rebuilds and atomically rewrites one account's history.
// Regular accounts get a cash balance series only; accounts that hold
// securities additionally get a market value series on the same month grid,
// so cost basis and current worth stay distinguishable.
func (s *Service) recalculate(ctx context.Context, account *domain.Account) error {
	now := s.Now()

	series, err := s.Reconstructor.Series(ctx, account, now)
	if err != nil {
		return err
	}

	snapshots := make([]*domain.MonthlySnapshot, 0, len(series))
	for _, point := range series {
		snapshots = append(snapshots, &domain.MonthlySnapshot{
			AccountID: account.ID,
			Month:     point.Month,
			Balance:   point.Balance,
		})
	}

	if account.HoldsSecurities() {
		if err := s.attachMarketValues(ctx, account, snapshots); err != nil {
			return err
		}
	}

	if err := s.SnapshotRepo.ReplaceForAccount(ctx, account.ID, snapshots); err != nil {
		return fmt.Errorf("failed to write snapshots for account %s: %w", account.ID, err)
	}
	return nil
}

// attachMarketValues replays the account's holdings over the snapshot month
// grid and prices each boundary.
func (s *Service) attachMarketValues(ctx context.Context, account *domain.Account, snapshots []*domain.MonthlySnapshot) error {
	txs, err := s.InvestmentTxRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("failed to load investment transactions for account %s: %w", account.ID, err)
	}

	index, err := s.Pricing.BuildIndex(ctx, holdings.SecurityIDs(txs))
	if err != nil {
		return err
	}

	boundaries := make([]time.Time, len(snapshots))
	for i, snapshot := range snapshots {
		boundaries[i] = domain.MonthEnd(snapshot.Month)
	}

	positions := holdings.Replay(txs, boundaries)
	for i, snapshot := range snapshots {
		value := holdings.MarketValue(positions[i], index, boundaries[i])
		snapshot.MarketValue = &value
	}
	return nil
}
