package projection

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/bill"
	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

const (
	recentLimit    = 5
	dashboardGoals = 2
)

type Totals struct {
	TotalIncome  ledger.Amount `json:"totalIncome"`
	TotalExpense ledger.Amount `json:"totalExpense"`
	Balance      ledger.Amount `json:"balance"`
}

// ComputeTotals sums incomes and expenses at full precision.
func ComputeTotals(incomes []ledger.Income, expenses []ledger.Expense) Totals {
	var t Totals

	for _, i := range incomes {
		t.TotalIncome = t.TotalIncome.Add(i.Amount)
	}

	for _, e := range expenses {
		t.TotalExpense = t.TotalExpense.Add(e.Amount)
	}

	t.Balance = t.TotalIncome.Sub(t.TotalExpense)

	return t
}

// GoalProgress returns current/target capped at 1. A non-positive target has no progress.
func GoalProgress(g ledger.Goal) decimal.Decimal {
	target := g.Target.Decimal()
	if !target.IsPositive() {
		return decimal.Zero
	}

	p := g.Current.Decimal().Div(target)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}

	if p.IsNegative() {
		return decimal.Zero
	}

	return p
}

type GoalView struct {
	Index    int             `json:"index"`
	Goal     ledger.Goal     `json:"goal"`
	Progress decimal.Decimal `json:"progress"`
}

type FolderView struct {
	Folder   ledger.Folder    `json:"folder"`
	Products []ledger.Product `json:"products"`
}

type Shopping struct {
	Folders   []FolderView     `json:"folders"`
	Ungrouped []ledger.Product `json:"ungrouped"`
	Total     ledger.Amount    `json:"total"`
}

// Views is everything the presentation layer renders, derived from one state.
type Views struct {
	Period         string                    `json:"period"`
	Totals         Totals                    `json:"totals"`
	Feed           []transaction.Transaction `json:"feed"`
	Recent         []transaction.Transaction `json:"recent"`
	Incomes        []ledger.Income           `json:"incomes"`
	Expenses       []ledger.Expense          `json:"expenses"`
	Goals          []GoalView                `json:"goals"`
	DashboardGoals []GoalView                `json:"dashboardGoals"`
	Accounts       []ledger.Account          `json:"accounts"`
	Card           *ledger.CreditCard        `json:"card"`
	Bills          []bill.View               `json:"bills"`
	UpcomingBills  []bill.View               `json:"upcomingBills"`
	Categories     ledger.Categories         `json:"categories"`
	ExpenseChoices []string                  `json:"expenseChoices"`
	User           ledger.User               `json:"user"`
	Shopping       Shopping                  `json:"shopping"`
}

// Build derives all views from s. It takes ownership of s, so callers pass a
// clone of the live state.
func Build(s *ledger.State, today date.Date) Views {
	incomes := s.Incomes().All()
	expenses := s.Expenses().All()
	feed := transaction.Build(incomes, expenses)
	bills := bill.Sorted(today, s.Bills.All())

	goals := make([]GoalView, 0, s.Goals.Len())
	for i, g := range s.Goals.All() {
		goals = append(goals, GoalView{Index: i, Goal: g, Progress: GoalProgress(g)})
	}

	v := Views{
		Period:         s.ActivePeriodKey(),
		Totals:         ComputeTotals(incomes, expenses),
		Feed:           feed,
		Recent:         transaction.Recent(feed, recentLimit),
		Incomes:        incomes,
		Expenses:       expenses,
		Goals:          goals,
		DashboardGoals: goals[:min(len(goals), dashboardGoals)],
		Accounts:       s.Accounts.All(),
		Bills:          bills,
		UpcomingBills:  bill.Upcoming(bills),
		Categories:     s.Categories,
		ExpenseChoices: s.Categories.ExpenseChoices(),
		User:           s.User,
		Shopping:       buildShopping(s.Folders.All(), s.Products.All()),
	}

	if card, ok := s.Card(); ok {
		v.Card = &card
	}

	return v
}

func buildShopping(folders []ledger.Folder, products []ledger.Product) Shopping {
	sh := Shopping{
		Folders:   make([]FolderView, 0, len(folders)),
		Ungrouped: []ledger.Product{},
	}

	byFolder := make(map[int64][]ledger.Product, len(folders))

	for _, p := range products {
		sh.Total = sh.Total.Add(p.Total())

		if p.FolderID == nil {
			sh.Ungrouped = append(sh.Ungrouped, p)
			continue
		}

		byFolder[*p.FolderID] = append(byFolder[*p.FolderID], p)
	}

	for _, f := range folders {
		items := byFolder[f.ID]
		if items == nil {
			items = []ledger.Product{}
		}

		sh.Folders = append(sh.Folders, FolderView{Folder: f, Products: items})
	}

	return sh
}
