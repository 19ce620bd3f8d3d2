package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/valtrack/valtrack-backend/internal/adapter/repository/postgres"
	"github.com/valtrack/valtrack-backend/internal/config"
	"github.com/valtrack/valtrack-backend/internal/usecase/balance"
	"github.com/valtrack/valtrack-backend/internal/usecase/pricing"
	"github.com/valtrack/valtrack-backend/internal/usecase/rates"
	"github.com/valtrack/valtrack-backend/internal/usecase/recalc"
	"github.com/valtrack/valtrack-backend/internal/usecase/report"
)

// services bundles the database handle and the fully wired use case layer so
// each subcommand only has to call openServices and defer Close.
type services struct {
	db     *postgres.DB
	recalc *recalc.Service
	report *report.Service
}

func openServices() (*services, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := postgres.NewDB(cfg.Database.DSN(), cfg.Database.Pool())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	investmentTxRepo := postgres.NewInvestmentTransactionRepository(db)
	securityRepo := postgres.NewSecurityRepository(db)
	priceRepo := postgres.NewPriceRepository(db)
	rateRepo := postgres.NewExchangeRateRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	settingsRepo := postgres.NewUserSettingsRepository(db)

	recalcService := recalc.NewService(
		accountRepo,
		snapshotRepo,
		investmentTxRepo,
		balance.NewReconstructor(transactionRepo),
		pricing.NewService(securityRepo, priceRepo, investmentTxRepo),
		log,
	)

	reportService := report.NewService(
		accountRepo,
		snapshotRepo,
		settingsRepo,
		rates.NewService(rateRepo),
		recalcService,
	)

	return &services{db: db, recalc: recalcService, report: reportService}, nil
}

func (s *services) Close() {
	s.db.Close()
}

// parseDate parses an optional YYYY-MM-DD flag value. An empty value means
// the bound is open.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	return &t, nil
}
