package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/persist/store"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// app is what every subcommand works against.
type app struct {
	cfg     *config.Config
	session *session.Session
	close   func() error
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	kv, closeStore, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	sess, err := session.Open(ctx, persist.NewAdapter(kv, cfg.Store.Key))
	if err != nil {
		closeStore()
		return nil, err
	}

	return &app{cfg: cfg, session: sess, close: closeStore}, nil
}

// periodFlag selects a budget month given as YYYY-M or YYYY-MM.
type periodFlag struct {
	value string
}

func (p *periodFlag) register(f *flag.FlagSet) {
	f.StringVar(&p.value, "period", "", "budget month as YYYY-MM (defaults to the current month)")
}

func (p *periodFlag) apply(ctx context.Context, a *app) error {
	if p.value == "" {
		return nil
	}

	t, err := time.Parse("2006-1", p.value)
	if err != nil {
		return fmt.Errorf("invalid period %q: expected YYYY-MM", p.value)
	}

	_, err = a.session.SetActivePeriod(ctx, t.Year(), t.Month())

	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}

			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
