package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&summaryCmd{}, "ledger")
	commander.Register(&feedCmd{}, "ledger")
	commander.Register(&billsCmd{}, "ledger")

	commander.Register(&exportCmd{}, "backup")
	commander.Register(&importCmd{}, "backup")
	commander.Register(&statementCmd{}, "backup")

	commander.Register(&tokenCmd{}, "api")

	flag.Parse()

	os.Exit(int(commander.Execute(context.Background())))
}
