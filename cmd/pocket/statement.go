package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocket/internal/importer"
)

type statementCmd struct {
	bank   string
	dryRun bool
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "import transactions from a bank statement CSV" }
func (*statementCmd) Usage() string {
	return `pocket statement [-bank cgd] [-n] <statement.csv>

  Files every statement line into the budget month of its date. Lines that
  are already recorded are skipped.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bank, "bank", string(importer.BankCGD), "statement format")
	f.BoolVar(&c.dryRun, "n", false, "print the parsed lines without saving them")
}

func (c *statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one statement file")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	txs, err := importer.NewService().Parse(importer.Bank(c.bank), file)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	a, err := openApp(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if c.dryRun {
		t := newTable("Date", "Type", "Description", "Amount")
		for _, tx := range txs {
			t.Row(tx.Date, string(tx.Type), tx.Description, tx.Amount.Format(a.cfg.App.Currency))
		}

		fmt.Println(t)

		return subcommands.ExitSuccess
	}

	added, _, err := a.session.ImportStatement(ctx, txs)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d of %d statement lines\n", added, len(txs))

	return subcommands.ExitSuccess
}
