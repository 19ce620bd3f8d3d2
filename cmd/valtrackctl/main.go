// valtrackctl is the operator CLI for the valuation snapshot engine: ad-hoc
// recomputation of account histories and quick net worth / portfolio reports.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

var configPath = flag.String("config", "valtrack.yaml", "path to the configuration file")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")

	subcommands.Register(&recalcCmd{}, "snapshots")
	subcommands.Register(&netWorthCmd{}, "reports")
	subcommands.Register(&investmentsCmd{}, "reports")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
