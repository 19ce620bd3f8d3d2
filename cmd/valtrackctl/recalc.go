package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// recalcCmd recomputes persisted snapshot histories. With -account it targets
// a single account, with -user it covers every account of that user, and with
// -investments it refreshes market values for all securities-holding accounts.
type recalcCmd struct {
	user        string
	account     string
	investments bool
}

func (*recalcCmd) Name() string     { return "recalc" }
func (*recalcCmd) Synopsis() string { return "recompute monthly valuation snapshots" }
func (*recalcCmd) Usage() string {
	return `recalc [-user <uuid>] [-account <uuid>] [-investments]:
  Recompute monthly snapshots for one account, one user, or every
  investment account in the system.
`
}

func (c *recalcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "owner of the accounts to recompute")
	f.StringVar(&c.account, "account", "", "recompute a single account (requires -user)")
	f.BoolVar(&c.investments, "investments", false, "recompute all securities-holding accounts")
}

func (c *recalcCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := openServices()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	switch {
	case c.account != "":
		userID, err := uuid.Parse(c.user)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: -account requires a valid -user uuid")
			return subcommands.ExitUsageError
		}
		accountID, err := uuid.Parse(c.account)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: invalid -account uuid")
			return subcommands.ExitUsageError
		}
		if err := svc.recalc.RecalculateAccount(ctx, userID, accountID); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("recomputed account", accountID)
	case c.user != "":
		userID, err := uuid.Parse(c.user)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: invalid -user uuid")
			return subcommands.ExitUsageError
		}
		if err := svc.recalc.RecalculateAllAccounts(ctx, userID); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("recomputed all accounts for user", userID)
	case c.investments:
		if err := svc.recalc.RecalculateAllInvestmentSnapshots(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("recomputed all investment account snapshots")
	default:
		fmt.Fprintln(os.Stderr, "error: one of -user, -account or -investments is required")
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}
