package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocket/internal/auth"
	"github.com/MrJamesThe3rd/pocket/internal/config"
)

type tokenCmd struct {
	subject string
	ttl     time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a bearer token for the API" }
func (*tokenCmd) Usage() string {
	return `pocket token [-subject <name>] [-ttl <duration>]

  Prints a token signed with AUTH_SECRET.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.subject, "subject", "owner", "token subject")
	f.DurationVar(&c.ttl, "ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	if cfg.Auth.Secret == "" {
		fmt.Fprintln(os.Stderr, "Error: AUTH_SECRET is not set")
		return subcommands.ExitUsageError
	}

	ttl := c.ttl
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}

	token, expires, err := auth.NewTokenService(cfg.Auth.Secret, ttl).Generate(c.subject)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))

	return subcommands.ExitSuccess
}
