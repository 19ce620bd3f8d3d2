package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type netWorthCmd struct {
	user string
	from string
	to   string
}

func (*netWorthCmd) Name() string     { return "networth" }
func (*netWorthCmd) Synopsis() string { return "print the monthly net worth series for a user" }
func (*netWorthCmd) Usage() string {
	return `networth -user <uuid> [-from YYYY-MM-DD] [-to YYYY-MM-DD]:
  Print assets, liabilities and net worth per month in the user's
  display currency.
`
}

func (c *netWorthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "user to report on")
	f.StringVar(&c.from, "from", "", "first month to include")
	f.StringVar(&c.to, "to", "", "last month to include")
}

func (c *netWorthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	svc, err := openServices()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	points, err := svc.report.GetMonthlyNetWorth(ctx, userID, start, end)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MONTH\tASSETS\tLIABILITIES\tNET WORTH\t")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			p.Month.Format("2006-01"), p.Assets, p.Liabilities, p.NetWorth)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
