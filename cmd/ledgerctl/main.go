// Command ledgerctl herramientas de operador sobre la base contable: migraciones, tokens y reportes.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&migrateCmd{}, "admin")
	commander.Register(&tokenCmd{}, "admin")
	commander.Register(&balanceCmd{}, "reportes")
	commander.Register(&debtsCmd{}, "reportes")
	commander.Register(&stockCmd{}, "reportes")
	commander.Register(&historyCmd{}, "reportes")
	commander.Register(&profitCmd{}, "reportes")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
