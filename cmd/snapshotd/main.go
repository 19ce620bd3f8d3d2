// snapshotd periodically recomputes investment snapshots across all users,
// so market values pick up freshly imported prices.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/valtrack/valtrack-backend/internal/adapter/repository/postgres"
	"github.com/valtrack/valtrack-backend/internal/config"
	"github.com/valtrack/valtrack-backend/internal/usecase/balance"
	"github.com/valtrack/valtrack-backend/internal/usecase/pricing"
	"github.com/valtrack/valtrack-backend/internal/usecase/recalc"
)

func main() {
	configPath := pflag.String("config", "valtrack.yaml", "path to the configuration file")
	once := pflag.Bool("once", false, "run a single recomputation pass and exit")
	pflag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	db, err := postgres.NewDB(cfg.Database.DSN(), cfg.Database.Pool())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories (Postgres)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	investmentTxRepo := postgres.NewInvestmentTransactionRepository(db)
	securityRepo := postgres.NewSecurityRepository(db)
	priceRepo := postgres.NewPriceRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	// Services
	recalcService := recalc.NewService(
		accountRepo,
		snapshotRepo,
		investmentTxRepo,
		balance.NewReconstructor(transactionRepo),
		pricing.NewService(securityRepo, priceRepo, investmentTxRepo),
		log,
	)

	queue := recalc.NewQueue(cfg.Recalc.QueueSize, log)
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runPass := func() {
		queue.Submit("recalculate-all-investment-snapshots", func(ctx context.Context) error {
			return recalcService.RecalculateAllInvestmentSnapshots(ctx)
		})
	}

	log.Info().Int("interval_minutes", cfg.Recalc.IntervalMinutes).Msg("snapshotd started")
	runPass()

	if *once {
		return
	}

	ticker := time.NewTicker(time.Duration(cfg.Recalc.IntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runPass()
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		}
	}
}
