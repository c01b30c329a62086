package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/bill"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

const dbTimeout = 5 * time.Second

var (
	faint      = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	heading    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	panel      = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// DbCtx returns a context with a standard timeout for storage operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// newTable builds a focused table with the shared styles.
func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func framed(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}

// statusLine renders the outcome of the last intent.
func statusLine(status string, err error) string {
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	if status == "" {
		return ""
	}

	return okStyle.Render(status)
}

func validateAmount(s string) error {
	a, err := ledger.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}

	if !a.IsPositive() {
		return fmt.Errorf("amount must be greater than 0")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func billStatus(s bill.Status) string {
	switch s.Kind {
	case bill.KindPaid:
		return okStyle.Render("Paid")
	case bill.KindToday:
		return errorStyle.Render("Due today")
	case bill.KindOverdue:
		return errorStyle.Render(fmt.Sprintf("Overdue %dd", s.DaysOverdue()))
	}

	if !s.Dated {
		return "Unpaid"
	}

	label := fmt.Sprintf("In %dd", s.RemainingDays)
	if s.Urgent {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(label)
	}

	return label
}

// cursorIn returns the table cursor when it points at one of n rows.
func cursorIn(t table.Model, n int) (int, bool) {
	i := t.Cursor()
	return i, i >= 0 && i < n
}
