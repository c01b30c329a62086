package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

type budgetState int

const (
	budgetStateBrowse budgetState = iota
	budgetStateAdd
)

// BudgetModel edits the income and expense lists of one budget month.
type BudgetModel struct {
	CommonModel

	state    budgetState
	views    projection.Views
	incomes  table.Model
	expenses table.Model
	// expensesFocused selects which table the keys act on.
	expensesFocused bool

	form   *huh.Form
	fields *budgetFields

	status string
	err    error
}

type budgetFields struct {
	name   string
	amount string
}

func NewBudgetModel(s *session.Session, currency string) BudgetModel {
	m := BudgetModel{
		CommonModel: CommonModel{Session: s, Currency: currency},
		incomes: newTable([]table.Column{
			{Title: "Source", Width: 24},
			{Title: "Amount", Width: 14},
		}, 10),
		expenses: newTable([]table.Column{
			{Title: "Category", Width: 24},
			{Title: "Amount", Width: 14},
		}, 10),
	}
	m.expenses.Blur()
	m.refresh()

	return m
}

func (m BudgetModel) Title() string { return "Budget" }

func (m BudgetModel) ShortHelp() string {
	if m.state == budgetStateAdd {
		return "Esc: cancel | Enter: next"
	}

	return "Esc: back | Tab: switch list | a: add | d: delete | [ ]: month"
}

func (m BudgetModel) Init() tea.Cmd {
	return nil
}

func (m *BudgetModel) refresh() {
	m.views = m.Session.Views()

	incomeRows := make([]table.Row, 0, len(m.views.Incomes))
	for _, in := range m.views.Incomes {
		incomeRows = append(incomeRows, table.Row{in.Source, in.Amount.Format(m.Currency)})
	}

	expenseRows := make([]table.Row, 0, len(m.views.Expenses))
	for _, e := range m.views.Expenses {
		expenseRows = append(expenseRows, table.Row{e.Category, e.Amount.Format(m.Currency)})
	}

	m.incomes.SetRows(incomeRows)
	m.expenses.SetRows(expenseRows)
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(intentMsg); ok {
		m.err = res.err
		m.status = ""

		if res.err == nil {
			m.status = res.done
		}

		m.state = budgetStateBrowse
		m.form = nil
		m.refresh()

		return m, nil
	}

	if m.state == budgetStateAdd {
		return m.updateAdd(msg)
	}

	return m.updateBrowse(msg)
}

func (m BudgetModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "tab":
			m.expensesFocused = !m.expensesFocused
			if m.expensesFocused {
				m.incomes.Blur()
				m.expenses.Focus()
			} else {
				m.expenses.Blur()
				m.incomes.Focus()
			}

			return m, nil
		case "a":
			return m.startAdd()
		case "d":
			return m, m.deleteCmd()
		case "[":
			return m, m.shiftMonthCmd(-1)
		case "]":
			return m, m.shiftMonthCmd(1)
		}
	}

	var cmd tea.Cmd
	if m.expensesFocused {
		m.expenses, cmd = m.expenses.Update(msg)
	} else {
		m.incomes, cmd = m.incomes.Update(msg)
	}

	return m, cmd
}

func (m BudgetModel) startAdd() (tea.Model, tea.Cmd) {
	f := &budgetFields{}
	m.fields = f

	var name huh.Field

	if m.expensesFocused {
		name = huh.NewSelect[string]().
			Title("Category").
			Options(huh.NewOptions(m.views.ExpenseChoices...)...).
			Value(&f.name)
	} else {
		name = huh.NewInput().
			Title("Source").
			Value(&f.name).
			Validate(notBlank("source"))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			name,
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetStateAdd

	return m, m.form.Init()
}

func (m BudgetModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetStateBrowse
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

	add := m.addCmd()
	m.state = budgetStateBrowse
	m.form = nil

	return m, add
}

func (m BudgetModel) addCmd() tea.Cmd {
	s := m.Session
	name := m.fields.name
	expense := m.expensesFocused

	amount, err := ledger.ParseAmount(m.fields.amount)
	if err != nil {
		return func() tea.Msg { return intentMsg{err: err} }
	}

	if expense {
		return intentCmd("Expense added.", func(ctx context.Context) (projection.Views, error) {
			return s.AddExpense(ctx, ledger.Expense{Category: name, Amount: amount})
		})
	}

	return intentCmd("Income added.", func(ctx context.Context) (projection.Views, error) {
		return s.AddIncome(ctx, ledger.Income{Source: name, Amount: amount})
	})
}

func (m BudgetModel) deleteCmd() tea.Cmd {
	s := m.Session

	if m.expensesFocused {
		i, ok := cursorIn(m.expenses, len(m.views.Expenses))
		if !ok {
			return nil
		}

		return intentCmd("Expense removed.", func(ctx context.Context) (projection.Views, error) { return s.RemoveExpenseAt(ctx, i) })
	}

	i, ok := cursorIn(m.incomes, len(m.views.Incomes))
	if !ok {
		return nil
	}

	return intentCmd("Income removed.", func(ctx context.Context) (projection.Views, error) { return s.RemoveIncomeAt(ctx, i) })
}

// shiftMonthCmd moves the active period by delta months.
func (m BudgetModel) shiftMonthCmd(delta int) tea.Cmd {
	current, err := time.Parse("2006-1", m.views.Period)
	if err != nil {
		current = time.Now()
	}

	next := current.AddDate(0, delta, 0)
	s := m.Session

	return intentCmd("Switched to "+next.Format("January 2006")+".", func(ctx context.Context) (projection.Views, error) {
		return s.SetActivePeriod(ctx, next.Year(), next.Month())
	})
}

func (m BudgetModel) View() string {
	title := heading.Render("Budget " + m.views.Period)
	totals := fmt.Sprintf("Income %s  ·  Expenses %s  ·  Balance %s",
		m.views.Totals.TotalIncome.Format(m.Currency),
		m.views.Totals.TotalExpense.Format(m.Currency),
		m.views.Totals.Balance.Format(m.Currency),
	)

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, "Incomes", framed(m.incomes)),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, "Expenses", framed(m.expenses)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, title, faint.Render(totals), "", lists, statusLine(m.status, m.err))

	if m.state == budgetStateAdd && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panel.Render(m.form.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
