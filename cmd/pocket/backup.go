package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocket/internal/backup"
)

type exportCmd struct {
	dir    string
	stdout bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a backup of all data" }
func (*exportCmd) Usage() string {
	return `pocket export [-dir <directory>] [-stdout]

  Writes finance-backup-<date>.json into the backup directory, or prints it.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "backup directory (defaults to BACKUP_DIR)")
	f.BoolVar(&c.stdout, "stdout", false, "print the backup instead of writing a file")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.close()

	blob, filename, err := a.session.Export(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	if c.stdout {
		if _, err := os.Stdout.Write(append(blob, '\n')); err != nil {
			fail(err)
			return subcommands.ExitFailure
		}

		return subcommands.ExitSuccess
	}

	dir := c.dir
	if dir == "" {
		dir = a.cfg.Backup.Dir
	}

	path, err := backup.NewService(dir, a.cfg.Backup.MaxSize).Write(blob, filename)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Println(path)

	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore data from a backup file" }
func (*importCmd) Usage() string {
	return `pocket import <file.json>

  Merges the backup over the current data. Every top-level section present in
  the file replaces the current one.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one backup file")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.close()

	blob, err := backup.NewService(a.cfg.Backup.Dir, a.cfg.Backup.MaxSize).Read(f.Arg(0))
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	v, err := a.session.Import(ctx, blob)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported backup for %s: %d transactions in %s, %d goals, %d bills\n",
		v.User.Name, len(v.Feed), v.Period, len(v.Goals), len(v.Bills))

	return subcommands.ExitSuccess
}
