package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

type DashboardModel struct {
	CommonModel
	views projection.Views
	bar   progress.Model
}

func NewDashboardModel(s *session.Session, currency string) DashboardModel {
	return DashboardModel{
		CommonModel: CommonModel{Session: s, Currency: currency},
		views:       s.Views(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.views = m.Session.Views()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	v := m.views

	header := heading.Render(fmt.Sprintf("Hi, %s", v.User.Name)) + faint.Render("  budget "+v.Period)

	totals := panel.Render(fmt.Sprintf(
		"Income   %s\nExpenses %s\nBalance  %s",
		v.Totals.TotalIncome.Format(m.Currency),
		v.Totals.TotalExpense.Format(m.Currency),
		lipgloss.NewStyle().Bold(true).Render(v.Totals.Balance.Format(m.Currency)),
	))

	card := panel.Render("No card")
	if v.Card != nil {
		card = panel.Render(fmt.Sprintf("%s  %s\n%s\nexp %s  balance %s",
			v.Card.Type, v.Card.Holder, v.Card.Number, v.Card.Expiry, v.Card.Balance.Format(m.Currency)))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, totals, " ", card)

	var recent strings.Builder

	recent.WriteString(heading.Render("Recent") + "\n")

	if len(v.Recent) == 0 {
		recent.WriteString(faint.Render("No transactions this month") + "\n")
	}

	for _, tx := range v.Recent {
		fmt.Fprintf(&recent, "%-10s %-24s %12s\n", tx.Date, tx.Description, tx.Amount.Format(m.Currency))
	}

	var goals strings.Builder

	goals.WriteString(heading.Render("Goals") + "\n")

	for _, g := range v.DashboardGoals {
		fmt.Fprintf(&goals, "%-20s %s\n", g.Goal.Name, m.bar.ViewAs(g.Progress.InexactFloat64()))
	}

	var bills strings.Builder

	bills.WriteString(heading.Render("Upcoming bills") + "\n")

	if len(v.UpcomingBills) == 0 {
		bills.WriteString(faint.Render("Nothing due this week") + "\n")
	}

	for _, b := range v.UpcomingBills {
		fmt.Fprintf(&bills, "%-20s %10s  %s\n", b.Bill.Name, b.Bill.Amount.Format(m.Currency), billStatus(b.Status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", top, "", recent.String(), goals.String(), bills.String(),
	))
}
