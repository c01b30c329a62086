package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

type goalFields struct {
	name     string
	target   string
	current  string
	deadline string
}

type SavingsModel struct {
	CommonModel

	views  projection.Views
	table  table.Model
	bar    progress.Model
	form   *huh.Form
	fields *goalFields

	status string
	err    error
}

func NewSavingsModel(s *session.Session, currency string) SavingsModel {
	m := SavingsModel{
		CommonModel: CommonModel{Session: s, Currency: currency},
		table: newTable([]table.Column{
			{Title: "Goal", Width: 22},
			{Title: "Saved", Width: 12},
			{Title: "Target", Width: 12},
			{Title: "Deadline", Width: 10},
		}, 10),
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	m.refresh()

	return m
}

func (m SavingsModel) Title() string { return "Savings" }

func (m SavingsModel) ShortHelp() string {
	if m.form != nil {
		return "Esc: cancel | Enter: next"
	}

	return "Esc: back | a: add | d: delete"
}

func (m SavingsModel) Init() tea.Cmd {
	return nil
}

func (m *SavingsModel) refresh() {
	m.views = m.Session.Views()

	rows := make([]table.Row, 0, len(m.views.Goals))
	for _, g := range m.views.Goals {
		rows = append(rows, table.Row{
			g.Goal.Name,
			g.Goal.Current.Format(m.Currency),
			g.Goal.Target.Format(m.Currency),
			g.Goal.Deadline,
		})
	}

	m.table.SetRows(rows)
}

func (m SavingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(intentMsg); ok {
		m.err = res.err
		m.status = ""

		if res.err == nil {
			m.status = res.done
		}

		m.refresh()

		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.startForm()
		case "d":
			i, ok := cursorIn(m.table, len(m.views.Goals))
			if !ok {
				return m, nil
			}

			s := m.Session
			index := m.views.Goals[i].Index

			return m, intentCmd("Goal deleted.", func(ctx context.Context) (projection.Views, error) { return s.DeleteGoal(ctx, index) })
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SavingsModel) startForm() (tea.Model, tea.Cmd) {
	f := &goalFields{current: "0"}
	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(notBlank("name")),
			huh.NewInput().Title("Target").Placeholder("0.00").Value(&f.target).Validate(validateAmount),
			huh.NewInput().Title("Saved so far").Value(&f.current).Validate(func(s string) error {
				a, err := ledger.ParseAmount(s)
				if err != nil || a.IsNegative() {
					return fmt.Errorf("enter 0 or more")
				}

				return nil
			}),
			huh.NewInput().Title("Deadline (optional)").Placeholder("YYYY-MM-DD").Value(&f.deadline).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}

				return validateDate(s)
			}),
		),
	).WithWidth(45).WithShowHelp(false)

	return m, m.form.Init()
}

func (m SavingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil

	target, err := ledger.ParseAmount(m.fields.target)
	if err != nil {
		m.err = err
		return m, nil
	}

	current, err := ledger.ParseAmount(m.fields.current)
	if err != nil {
		m.err = err
		return m, nil
	}

	g := ledger.Goal{
		Name:     strings.TrimSpace(m.fields.name),
		Target:   target,
		Current:  current,
		Deadline: strings.TrimSpace(m.fields.deadline),
	}
	s := m.Session

	return m, intentCmd("Goal added.", func(ctx context.Context) (projection.Views, error) { return s.AddGoal(ctx, g) })
}

func (m SavingsModel) View() string {
	var progressView strings.Builder

	if i, ok := cursorIn(m.table, len(m.views.Goals)); ok {
		g := m.views.Goals[i]
		fmt.Fprintf(&progressView, "%s\n%s", g.Goal.Name, m.bar.ViewAs(g.Progress.InexactFloat64()))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		heading.Render("Savings goals"),
		framed(m.table),
		progressView.String(),
		statusLine(m.status, m.err),
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panel.Render(m.form.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
