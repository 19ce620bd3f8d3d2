package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type investmentsCmd struct {
	user     string
	from     string
	to       string
	accounts string
	currency string
}

func (*investmentsCmd) Name() string { return "investments" }
func (*investmentsCmd) Synopsis() string {
	return "print the monthly investment value series for a user"
}
func (*investmentsCmd) Usage() string {
	return `investments -user <uuid> [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-accounts <uuid,...>] [-currency EUR]:
  Print the combined monthly value of the user's investment accounts,
  optionally restricted to specific accounts or converted to a given
  currency instead of the saved display preference.
`
}

func (c *investmentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "user to report on")
	f.StringVar(&c.from, "from", "", "first month to include")
	f.StringVar(&c.to, "to", "", "last month to include")
	f.StringVar(&c.accounts, "accounts", "", "comma separated account uuids to restrict to")
	f.StringVar(&c.currency, "currency", "", "override the user's display currency")
}

func (c *investmentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	userID, err := uuid.Parse(c.user)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: invalid -user uuid")
		return subcommands.ExitUsageError
	}
	start, err := parseDate(c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitUsageError
	}
	end, err := parseDate(c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitUsageError
	}

	var accountIDs []uuid.UUID
	if c.accounts != "" {
		for _, raw := range strings.Split(c.accounts, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid account uuid %q\n", raw)
				return subcommands.ExitUsageError
			}
			accountIDs = append(accountIDs, id)
		}
	}

	svc, err := openServices()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	points, err := svc.report.GetMonthlyInvestments(ctx, userID, start, end, accountIDs, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MONTH\tVALUE\t")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t\n", p.Month.Format("2006-01"), p.Value)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
