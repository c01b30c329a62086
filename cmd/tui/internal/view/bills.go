package view

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

type billFields struct {
	name   string
	due    string
	amount string
}

// BillsModel lists bills with their due status.
type BillsModel struct {
	CommonModel

	views projection.Views
	table table.Model
	form  *huh.Form
	// editing is the bill index being edited, or session.NewRecord.
	editing int
	fields  *billFields

	status string
	err    error
}

func NewBillsModel(s *session.Session, currency string) BillsModel {
	m := BillsModel{
		CommonModel: CommonModel{Session: s, Currency: currency},
		table: newTable([]table.Column{
			{Title: "Bill", Width: 22},
			{Title: "Due", Width: 10},
			{Title: "Amount", Width: 12},
			{Title: "Status", Width: 16},
		}, 12),
	}
	m.refresh()

	return m
}

func (m BillsModel) Title() string { return "Bills" }

func (m BillsModel) ShortHelp() string {
	if m.form != nil {
		return "Esc: cancel | Enter: next"
	}

	return "Esc: back | a: add | e: edit | d: delete | space: paid"
}

func (m BillsModel) Init() tea.Cmd {
	return nil
}

func (m *BillsModel) refresh() {
	m.views = m.Session.Views()

	rows := make([]table.Row, 0, len(m.views.Bills))
	for _, b := range m.views.Bills {
		rows = append(rows, table.Row{b.Bill.Name, b.Bill.DueDate, b.Bill.Amount.Format(m.Currency), billStatus(b.Status)})
	}

	m.table.SetRows(rows)
}

// selected returns the source index of the bill under the cursor. Bill
// views are sorted, so the row position is not the storage index.
func (m BillsModel) selected() (int, ledger.Bill, bool) {
	i, ok := cursorIn(m.table, len(m.views.Bills))
	if !ok {
		return 0, ledger.Bill{}, false
	}

	v := m.views.Bills[i]

	return v.Index, v.Bill, true
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		s := m.Session

		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.startForm(session.NewRecord, ledger.Bill{DueDate: s.Today().String()})
		case "e":
			if i, b, ok := m.selected(); ok {
				return m.startForm(i, b)
			}

			return m, nil
		case "d":
			if i, _, ok := m.selected(); ok {
				return m, intentCmd("Bill deleted.", func(ctx context.Context) (projection.Views, error) { return s.DeleteBill(ctx, i) })
			}

			return m, nil
		case " ":
			if i, _, ok := m.selected(); ok {
				return m, intentCmd("Bill updated.", func(ctx context.Context) (projection.Views, error) { return s.ToggleBillPaid(ctx, i) })
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BillsModel) startForm(index int, b ledger.Bill) (tea.Model, tea.Cmd) {
	f := &billFields{name: b.Name, due: b.DueDate}
	if !b.Amount.IsZero() {
		f.amount = b.Amount.StringFixed(2)
	}

	m.editing = index
	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(notBlank("name")),
			huh.NewInput().Title("Due date").Placeholder("YYYY-MM-DD").Value(&f.due).Validate(validateDate),
			huh.NewInput().Title("Amount").Placeholder("0.00").Value(&f.amount).Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	return m, m.form.Init()
}

func (m BillsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	amount, err := ledger.ParseAmount(m.fields.amount)
	if err != nil {
		m.err = err
		return m, nil
	}

	b := ledger.Bill{
		Name:    strings.TrimSpace(m.fields.name),
		DueDate: strings.TrimSpace(m.fields.due),
		Amount:  amount,
	}
	s := m.Session
	index := m.editing

	return m, intentCmd("Bill saved.", func(ctx context.Context) (projection.Views, error) { return s.SaveBill(ctx, b, index) })
}

func (m BillsModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		heading.Render("Bills"),
		framed(m.table),
		statusLine(m.status, m.err),
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panel.Render(m.form.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
