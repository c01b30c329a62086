package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocket/internal/backup"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/persist/store"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

const logFile = "pocket-tui.log"

type model struct {
	appName  string
	currency string
	session  *session.Session
	backups  *backup.Service

	// active is nil while the menu is shown.
	active view.View
	size   tea.WindowSizeMsg
}

var menu = []struct {
	key   string
	label string
}{
	{"1", "Dashboard"},
	{"2", "Budget"},
	{"3", "Transactions"},
	{"4", "Bills"},
	{"5", "Savings"},
	{"6", "Backup"},
}

func (m model) open(key string) view.View {
	switch key {
	case "1":
		return view.NewDashboardModel(m.session, m.currency)
	case "2":
		return view.NewBudgetModel(m.session, m.currency)
	case "3":
		return view.NewTransactionsModel(m.session, m.currency)
	case "4":
		return view.NewBillsModel(m.session, m.currency)
	case "5":
		return view.NewSavingsModel(m.session, m.currency)
	case "6":
		return view.NewBackupModel(m.session, m.backups)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.active == nil {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			if v := m.open(msg.String()); v != nil {
				var sized tea.Model = v
				if m.size.Width > 0 {
					sized, _ = v.Update(m.size)
				}

				m.active = sized.(view.View)

				return m, m.active.Init()
			}

			return m, nil
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.active = nil
		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	m.active = next.(view.View)

	return m, cmd
}

func (m model) View() string {
	if m.active != nil {
		return m.active.View() + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.active.ShortHelp())
	}

	v := m.session.Views()
	body := fmt.Sprintf("%s\n%s\n\n", m.appName, lipgloss.NewStyle().Faint(true).Render(
		fmt.Sprintf("budget %s  ·  balance %s", v.Period, v.Totals.Balance.Format(m.currency)),
	))

	for _, item := range menu {
		body += fmt.Sprintf("%s. %s\n", item.key, item.label)
	}

	return lipgloss.NewStyle().Padding(2).Render(body + "\nq. Quit")
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	kv, closeStore, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeStore()

	sess, err := session.Open(context.Background(), persist.NewAdapter(kv, cfg.Store.Key))
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}

	m := model{
		appName:  cfg.App.Name,
		currency: cfg.App.Currency,
		session:  sess,
		backups:  backup.NewService(cfg.Backup.Dir, cfg.Backup.MaxSize),
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("pocket tui failed", "error", err)
		os.Exit(1)
	}
}
