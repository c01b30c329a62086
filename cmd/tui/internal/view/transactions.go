package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type txState int

const (
	txStateList txState = iota
	txStateEditing
	txStateConfirmDelete
)

// txItem wraps a feed row to implement list.Item.
type txItem struct {
	tx       transaction.Transaction
	index    int
	currency string
}

func (i txItem) Title() string {
	date := i.tx.Date
	if date == "" {
		date = "-"
	}

	amount := i.tx.Amount.Format(i.currency)
	if i.tx.Type == transaction.TypeIncome {
		amount = okStyle.Render("+" + amount)
	}

	return fmt.Sprintf("%-10s  %12s  %s", date, amount, i.tx.Description)
}

func (i txItem) Description() string {
	parts := []string{i.tx.Category}
	if i.tx.Account != "" {
		parts = append(parts, i.tx.Account)
	}

	return strings.Join(parts, " · ")
}

func (i txItem) FilterValue() string {
	return i.tx.Description + " " + i.tx.Category
}

// TransactionsModel lists the feed of the active month and edits it.
type TransactionsModel struct {
	CommonModel

	state   txState
	views   projection.Views
	list    list.Model
	form    *huh.Form
	confirm *huh.Form
	// editing is the feed index being edited, or session.NewRecord.
	editing int

	status string
	err    error

	fields *txFields
}

// txFields holds the form bindings. It lives behind a pointer so the
// bindings survive copies of the model.
type txFields struct {
	kind     string
	desc     string
	amount   string
	date     string
	category string
	account  string
	remove   bool
}

func NewTransactionsModel(s *session.Session, currency string) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := TransactionsModel{
		CommonModel: CommonModel{Session: s, Currency: currency},
		list:        l,
	}
	m.refresh()

	return m
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	case txStateConfirmDelete:
		return "Esc: cancel"
	}

	return "Esc: back | n: new | Enter/e: edit | d: delete | /: filter"
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m *TransactionsModel) refresh() {
	m.views = m.Session.Views()
	m.list.Title = "Transactions " + m.views.Period

	items := make([]list.Item, len(m.views.Feed))
	for i, tx := range m.views.Feed {
		items[i] = txItem{tx: tx, index: i, currency: m.Currency}
	}

	m.list.SetItems(items)
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case intentMsg:
		m.err = msg.err
		m.status = ""

		if msg.err == nil {
			m.status = msg.done
		}

		m.state = txStateList
		m.form = nil
		m.confirm = nil
		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	case txStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "enter", "e":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m.startEditing(selected.index, selected.tx)
			}

			return m, nil
		case "n":
			return m.startEditing(session.NewRecord, transaction.Transaction{
				Type: transaction.TypeExpense,
				Date: m.Session.Today().String(),
			})
		case "d":
			return m.startDelete()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing(index int, tx transaction.Transaction) (tea.Model, tea.Cmd) {
	f := &txFields{
		kind:     string(tx.Type),
		desc:     tx.Description,
		date:     tx.Date,
		category: tx.Category,
		account:  tx.Account,
	}

	if !tx.Amount.IsZero() {
		f.amount = tx.Amount.Abs().StringFixed(2)
	}

	m.editing = index
	m.fields = f

	accounts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, a := range m.views.Accounts {
		accounts = append(accounts, huh.NewOption(a.Name, a.Name))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&f.kind),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.desc).
				Validate(notBlank("description")),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(validateDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					if f.kind == string(transaction.TypeIncome) {
						return huh.NewOptions(append([]string{transaction.DefaultIncomeCategory}, m.views.Categories.Income...)...)
					}

					return huh.NewOptions(m.views.ExpenseChoices...)
				}, &f.kind).
				Value(&f.category),

			huh.NewSelect[string]().
				Key("account").
				Title("Account").
				Options(accounts...).
				Value(&f.account),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
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

	save := m.saveTxCmd()
	m.state = txStateList
	m.form = nil

	return m, save
}

func (m TransactionsModel) startDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.editing = selected.index
	m.fields = &txFields{}
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", selected.tx.Description)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.fields.remove),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = txStateConfirmDelete

	return m, m.confirm.Init()
}

func (m TransactionsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.confirm = nil

		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.fields.remove {
		m.state = txStateList
		m.confirm = nil

		return m, nil
	}

	s := m.Session
	index := m.editing
	m.state = txStateList
	m.confirm = nil

	return m, intentCmd("Deleted.", func(ctx context.Context) (projection.Views, error) {
		return s.DeleteTransaction(ctx, index)
	})
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	f := m.fields

	amount, err := ledger.ParseAmount(f.amount)
	if err != nil {
		return func() tea.Msg { return intentMsg{err: err} }
	}

	in := transaction.Input{
		Type:        transaction.Type(f.kind),
		Description: strings.TrimSpace(f.desc),
		Amount:      amount,
		Date:        strings.TrimSpace(f.date),
		Category:    f.category,
		Account:     f.account,
	}
	s := m.Session
	index := m.editing

	return intentCmd("Saved.", func(ctx context.Context) (projection.Views, error) {
		return s.SaveTransaction(ctx, in, index)
	})
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateEditing:
		title := "New transaction"
		if m.editing != session.NewRecord {
			title = "Edit transaction"
		}

		return lipgloss.NewStyle().Padding(1).Render(heading.Render(title) + "\n\n" + m.form.View())

	case txStateConfirmDelete:
		return lipgloss.NewStyle().Padding(1).Render(m.confirm.View())
	}

	totals := faint.Render(fmt.Sprintf("Balance %s", m.views.Totals.Balance.Format(m.Currency)))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, statusLine(m.status, m.err), totals, m.list.View()),
	)
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faint.Render(i.Description()))
}
