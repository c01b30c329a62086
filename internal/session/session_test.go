package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/persist/memory"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// errOf drops the views an intent returns.
func errOf(_ projection.Views, err error) error { return err }

var now = time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func openSession(t *testing.T) (*session.Session, *memory.Store) {
	t.Helper()

	store := memory.New()

	s, err := session.Open(context.Background(), persist.NewAdapter(store, ""), session.WithClock(fixedClock))
	require.NoError(t, err)

	return s, store
}

func TestOpen_ActivatesCurrentMonth(t *testing.T) {
	s, store := openSession(t)

	v := s.Views()
	assert.Equal(t, "2025-1", v.Period)
	assert.Len(t, v.Accounts, 4)
	assert.True(t, v.Totals.Balance.IsZero())

	_, ok, err := store.Get(context.Background(), persist.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok, "opening does not write")
}

func TestSession_PeriodIsolation(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	require.NoError(t, errOf(s.AddIncome(ctx, ledger.Income{Source: "Job", Amount: ledger.MustAmount("1000")})))
	assert.Len(t, s.Views().Incomes, 1)

	require.NoError(t, errOf(s.SetActivePeriod(ctx, 2025, time.February)))
	assert.Equal(t, "2025-2", s.Views().Period)
	assert.Empty(t, s.Views().Incomes)
	assert.True(t, s.Views().Totals.TotalIncome.IsZero())

	require.NoError(t, errOf(s.SetActivePeriod(ctx, 2025, time.January)))
	require.Len(t, s.Views().Incomes, 1)
	assert.Equal(t, "Job", s.Views().Incomes[0].Source)
	assert.NotEmpty(t, s.Views().Incomes[0].ID)
}

func TestOpen_NewMonthStartsEmpty(t *testing.T) {
	ctx := context.Background()
	s, store := openSession(t)

	require.NoError(t, errOf(s.AddIncome(ctx, ledger.Income{Source: "Job", Amount: ledger.MustAmount("1000")})))

	february := func() time.Time { return now.AddDate(0, 1, 0) }

	next, err := session.Open(ctx, persist.NewAdapter(store, ""), session.WithClock(february))
	require.NoError(t, err)

	v := next.Views()
	assert.Equal(t, "2025-2", v.Period)
	assert.Empty(t, v.Incomes)
	assert.True(t, v.Totals.TotalIncome.IsZero())

	require.NoError(t, errOf(next.AddExpense(ctx, ledger.Expense{Category: "Food", Amount: ledger.MustAmount("5")})))
	assert.Empty(t, next.Views().Incomes)

	require.NoError(t, errOf(next.SetActivePeriod(ctx, 2025, time.January)))
	require.Len(t, next.Views().Incomes, 1)
	assert.Equal(t, "Job", next.Views().Incomes[0].Source)
	assert.Empty(t, next.Views().Expenses)
}

func TestSession_Import_MissingActiveKey(t *testing.T) {
	ctx := context.Background()
	s, store := openSession(t)

	require.NoError(t, errOf(s.AddIncome(ctx, ledger.Income{Source: "Job", Amount: ledger.MustAmount("1000")})))

	blob, _, err := s.Export(ctx)
	require.NoError(t, err)

	later := func() time.Time { return now.AddDate(0, 2, 0) }

	other, err := session.Open(ctx, persist.NewAdapter(store, ""), session.WithClock(later))
	require.NoError(t, err)
	require.NoError(t, errOf(other.Import(ctx, blob)))

	v := other.Views()
	assert.Equal(t, "2025-3", v.Period)
	assert.Empty(t, v.Incomes)

	require.NoError(t, errOf(other.SetActivePeriod(ctx, 2025, time.January)))
	assert.Len(t, other.Views().Incomes, 1)
}

func TestSession_SetActivePeriod_InvalidMonth(t *testing.T) {
	s, _ := openSession(t)

	err := errOf(s.SetActivePeriod(context.Background(), 2025, 13))
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
	assert.Equal(t, "2025-1", s.Views().Period)
}

func TestSession_ValidationLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		intent func(s *session.Session) error
	}{
		{
			name: "IncomeWithoutSource",
			intent: func(s *session.Session) error {
				return errOf(s.AddIncome(ctx, ledger.Income{Amount: ledger.MustAmount("10")}))
			},
		},
		{
			name: "ExpenseZeroAmount",
			intent: func(s *session.Session) error {
				return errOf(s.AddExpense(ctx, ledger.Expense{Category: "Food"}))
			},
		},
		{
			name: "ExpenseWithoutCategory",
			intent: func(s *session.Session) error {
				return errOf(s.AddExpense(ctx, ledger.Expense{Amount: ledger.MustAmount("5")}))
			},
		},
		{
			name: "TransactionBadType",
			intent: func(s *session.Session) error {
				return errOf(s.SaveTransaction(ctx, transaction.Input{
					Type: "transfer", Description: "x", Amount: ledger.MustAmount("1"), Date: "2025-01-01",
				}, session.NewRecord))
			},
		},
		{
			name: "GoalNegativeCurrent",
			intent: func(s *session.Session) error {
				return errOf(s.AddGoal(ctx, ledger.Goal{Name: "Car", Target: ledger.MustAmount("100"), Current: ledger.MustAmount("-1")}))
			},
		},
		{
			name: "BillBadDate",
			intent: func(s *session.Session) error {
				return errOf(s.SaveBill(ctx, ledger.Bill{Name: "Gas", DueDate: "soon", Amount: ledger.MustAmount("5")}, session.NewRecord))
			},
		},
		{
			name: "BlankCategory",
			intent: func(s *session.Session) error {
				return errOf(s.AddCategory(ctx, ledger.KindIncome, "  "))
			},
		},
		{
			name: "CardWithoutHolder",
			intent: func(s *session.Session) error {
				return errOf(s.SetCreditCard(ctx, ledger.CreditCard{Number: "4111111111111111", Expiry: "01/30"}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := openSession(t)
			before := s.Views()

			err := tt.intent(s)
			assert.ErrorIs(t, err, ledger.ErrInvalidInput)
			assert.Equal(t, before, s.Views())

			_, ok, _ := store.Get(ctx, persist.DefaultKey)
			assert.False(t, ok)
		})
	}
}

func TestSession_SaveTransaction(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	in := transaction.Input{
		Type:        transaction.TypeExpense,
		Description: "Coffee",
		Amount:      ledger.MustAmount("3.50"),
		Date:        "2025-01-09",
		Category:    "Cafes & Restaurants",
	}
	require.NoError(t, errOf(s.SaveTransaction(ctx, in, session.NewRecord)))

	feed := s.Views().Feed
	require.Len(t, feed, 1)
	id := feed[0].ID
	assert.True(t, feed[0].Amount.Equal(ledger.MustAmount("-3.50")))

	in.Amount = ledger.MustAmount("4")
	require.NoError(t, errOf(s.SaveTransaction(ctx, in, 0)))

	v := s.Views()
	require.Len(t, v.Expenses, 1)
	assert.Equal(t, id, v.Expenses[0].ID)
	assert.True(t, v.Expenses[0].Amount.Equal(ledger.MustAmount("4")))

	in.Type = transaction.TypeIncome
	require.NoError(t, errOf(s.SaveTransaction(ctx, in, 0)))

	v = s.Views()
	assert.Empty(t, v.Expenses)
	require.Len(t, v.Incomes, 1)
	assert.Equal(t, id, v.Incomes[0].ID)
	assert.Equal(t, "Coffee", v.Incomes[0].Source)

	err := errOf(s.SaveTransaction(ctx, in, 5))
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestSession_DeleteTransaction_LegacyDuplicates(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	blob := `{
		"user": {"name": "Ana", "avatar": ""},
		"budgetByMonth": {"2025-1": {"incomes": [], "expenses": [
			{"category": "food", "amount": 10, "date": "2025-01-01", "description": "food"},
			{"category": "food", "amount": 10, "date": "2025-01-01", "description": "food"}
		]}}
	}`
	require.NoError(t, errOf(s.Import(ctx, []byte(blob))))
	require.Len(t, s.Views().Feed, 2)

	require.NoError(t, errOf(s.DeleteTransaction(ctx, 1)))
	assert.Len(t, s.Views().Expenses, 1)

	require.NoError(t, errOf(s.DeleteTransaction(ctx, 0)))
	assert.Empty(t, s.Views().Expenses)

	assert.ErrorIs(t, errOf(s.DeleteTransaction(ctx, 0)), matching.ErrNotFound)
}

func TestSession_DeleteTransaction_ByID(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	for _, desc := range []string{"first", "second"} {
		require.NoError(t, errOf(s.SaveTransaction(ctx, transaction.Input{
			Type: transaction.TypeExpense, Description: "food", Amount: ledger.MustAmount("10"), Date: "2025-01-01", Category: desc,
		}, session.NewRecord)))
	}

	require.NoError(t, errOf(s.DeleteTransaction(ctx, 1)))

	v := s.Views()
	require.Len(t, v.Expenses, 1)
	assert.Equal(t, "first", v.Expenses[0].Category)
}

func TestSession_BudgetLists(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	require.NoError(t, errOf(s.AddIncome(ctx, ledger.Income{Source: "Job", Amount: ledger.MustAmount("1200")})))
	require.NoError(t, errOf(s.AddExpense(ctx, ledger.Expense{Category: "Rent", Amount: ledger.MustAmount("700.25")})))

	totals := s.Views().Totals
	assert.True(t, totals.Balance.Equal(ledger.MustAmount("499.75")))

	require.NoError(t, errOf(s.RemoveExpenseAt(ctx, 0)))
	assert.ErrorIs(t, errOf(s.RemoveExpenseAt(ctx, 0)), ledger.ErrIndexOutOfRange)
	require.NoError(t, errOf(s.RemoveIncomeAt(ctx, 0)))
	assert.True(t, s.Views().Totals.TotalIncome.IsZero())
}

func TestSession_Records(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	require.NoError(t, errOf(s.AddGoal(ctx, ledger.Goal{Name: "Trip", Target: ledger.MustAmount("1000"), Current: ledger.MustAmount("250")})))
	require.Len(t, s.Views().Goals, 1)
	assert.Equal(t, "0.25", s.Views().Goals[0].Progress.String())
	require.NoError(t, errOf(s.DeleteGoal(ctx, 0)))
	assert.Empty(t, s.Views().Goals)

	require.NoError(t, errOf(s.SaveAccount(ctx, ledger.Account{Name: "Brokerage", Number: "••••• 9000"}, session.NewRecord)))
	require.NoError(t, errOf(s.SaveAccount(ctx, ledger.Account{Name: "Cash", Number: "Cash", Balance: ledger.MustAmount("12")}, 1)))
	v := s.Views()
	require.Len(t, v.Accounts, 5)
	assert.Equal(t, "Cash", v.Accounts[1].Name)
	assert.Equal(t, "Brokerage", v.Accounts[4].Name)
	require.NoError(t, errOf(s.DeleteAccount(ctx, 4)))
	assert.ErrorIs(t, errOf(s.DeleteAccount(ctx, 4)), ledger.ErrIndexOutOfRange)

	require.NoError(t, errOf(s.SaveBill(ctx, ledger.Bill{Name: "Power", DueDate: "2025-01-12", Amount: ledger.MustAmount("60")}, session.NewRecord)))
	require.NoError(t, errOf(s.ToggleBillPaid(ctx, 0)))
	require.NoError(t, errOf(s.SaveBill(ctx, ledger.Bill{Name: "Power", DueDate: "2025-01-14", Amount: ledger.MustAmount("65")}, 0)))
	bills := s.Views().Bills
	require.Len(t, bills, 1)
	assert.True(t, bills[0].Bill.Paid)
	assert.Equal(t, "2025-01-14", bills[0].Bill.DueDate)
	require.NoError(t, errOf(s.DeleteBill(ctx, 0)))
	assert.Empty(t, s.Views().Bills)

	require.NoError(t, errOf(s.SetCreditCard(ctx, ledger.CreditCard{
		Holder: "Ana", Number: "4111111111117899", Expiry: "01/30", Type: "VISA",
	})))
	require.NotNil(t, s.Views().Card)
	assert.Equal(t, "••••••••••••7899", s.Views().Card.Number)

	require.NoError(t, errOf(s.AddCategory(ctx, ledger.KindExpenses, "Pets")))
	assert.Contains(t, s.Views().ExpenseChoices, "Pets")
	require.NoError(t, errOf(s.DeleteCategory(ctx, ledger.KindSavings, 0)))
	assert.Equal(t, []string{"Travel"}, s.Views().Categories.Savings)
	assert.ErrorIs(t, errOf(s.AddCategory(ctx, "misc", "x")), ledger.ErrUnknownCategory)

	require.NoError(t, errOf(s.UpdateUser(ctx, ledger.User{Name: " "})))
	assert.Equal(t, "Stefania Nord", s.Views().User.Name)
	require.NoError(t, errOf(s.UpdateUser(ctx, ledger.User{Name: "Ana"})))
	assert.Equal(t, "Ana", s.Views().User.Name)
	assert.NotEmpty(t, s.Views().User.Avatar)
}

func TestSession_Shopping(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	weekly, v, err := s.CreateFolder(ctx, "Weekly")
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), weekly.ID)
	assert.Len(t, v.Shopping.Folders, 1)

	party, _, err := s.CreateFolder(ctx, "Party")
	require.NoError(t, err)
	assert.NotEqual(t, weekly.ID, party.ID)

	for _, name := range []string{"Milk", "Cake", "Milk"} {
		require.NoError(t, errOf(s.AddProduct(ctx, ledger.Product{Name: name, Price: ledger.MustAmount("2.5"), Qty: 2})))
	}

	require.NoError(t, errOf(s.MoveProduct(ctx, "Milk", &weekly.ID)))
	require.NoError(t, errOf(s.MoveProduct(ctx, "Cake", &party.ID)))

	sh := s.Views().Shopping
	require.Len(t, sh.Folders, 2)
	assert.Len(t, sh.Folders[0].Products, 1)
	assert.Len(t, sh.Ungrouped, 1)
	assert.True(t, sh.Total.Equal(ledger.MustAmount("15")))

	missing := int64(42)
	assert.ErrorIs(t, errOf(s.MoveProduct(ctx, "Milk", &missing)), session.ErrNotFound)
	assert.ErrorIs(t, errOf(s.MoveProduct(ctx, "Bread", nil)), session.ErrNotFound)

	require.NoError(t, errOf(s.DeleteFolder(ctx, party.ID)))
	sh = s.Views().Shopping
	assert.Len(t, sh.Folders, 1)
	assert.Len(t, sh.Ungrouped, 1)
	assert.True(t, sh.Total.Equal(ledger.MustAmount("10")))

	require.NoError(t, errOf(s.DeleteProduct(ctx, "Milk")))
	require.NoError(t, errOf(s.DeleteProduct(ctx, "Milk")))
	assert.ErrorIs(t, errOf(s.DeleteProduct(ctx, "Milk")), session.ErrNotFound)
	assert.True(t, s.Views().Shopping.Total.IsZero())
}

func TestSession_ExportImport(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	require.NoError(t, errOf(s.AddIncome(ctx, ledger.Income{Source: "Job", Amount: ledger.MustAmount("1000")})))

	blob, name, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "finance-backup-2025-01-10.json", name)

	other, _ := openSession(t)
	require.NoError(t, errOf(other.Import(ctx, blob)))

	got, _, err := other.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), string(got))
	assert.Len(t, other.Views().Incomes, 1)
}

func TestSession_Import_Rejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		blob    string
		wantErr error
	}{
		{name: "NotJSON", blob: "{", wantErr: persist.ErrMalformed},
		{name: "NoUser", blob: `{"goals": []}`, wantErr: persist.ErrInvalidBackup},
		{name: "NullUser", blob: `{"user": null}`, wantErr: persist.ErrInvalidBackup},
		{name: "BadField", blob: `{"user": {}, "bills": "many"}`, wantErr: persist.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := openSession(t)
			before, _, err := s.Export(ctx)
			require.NoError(t, err)

			assert.ErrorIs(t, errOf(s.Import(ctx, []byte(tt.blob))), tt.wantErr)

			after, _, err := s.Export(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}
}

func TestSession_SaveError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := persist.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), persist.DefaultKey).Return("", false, nil)
	gomock.InOrder(
		store.EXPECT().Set(gomock.Any(), persist.DefaultKey, gomock.Any()).Return(errors.New("disk full")),
		store.EXPECT().Set(gomock.Any(), persist.DefaultKey, gomock.Any()).Return(nil),
	)

	s, err := session.Open(ctx, persist.NewAdapter(store, ""), session.WithClock(fixedClock))
	require.NoError(t, err)

	goal := ledger.Goal{Name: "Bike", Target: ledger.MustAmount("300")}

	err = errOf(s.AddGoal(ctx, goal))
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, s.Views().Goals, "views are not refreshed after a failed save")

	require.NoError(t, errOf(s.AddGoal(ctx, goal)))
	assert.Len(t, s.Views().Goals, 2)
}

func TestSession_OnChange(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	var got []projection.Views

	s.OnChange(func(v projection.Views) {
		got = append(got, v)
		assert.Equal(t, v, s.Views())
	})

	require.NoError(t, errOf(s.AddGoal(ctx, ledger.Goal{Name: "Car", Target: ledger.MustAmount("5000")})))
	assert.Error(t, errOf(s.DeleteGoal(ctx, 3)))

	require.Len(t, got, 1)
	assert.Len(t, got[0].Goals, 1)
}

func TestSession_ConcurrentIntents(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	var g errgroup.Group
	for range 20 {
		g.Go(func() error {
			return errOf(s.AddExpense(ctx, ledger.Expense{Category: "Food", Amount: ledger.MustAmount("1.10")}))
		})
	}

	require.NoError(t, g.Wait())

	v := s.Views()
	assert.Len(t, v.Expenses, 20)
	assert.True(t, v.Totals.TotalExpense.Equal(ledger.MustAmount("22")))
}

func TestSession_IntentsReturnTheirOwnViews(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	const n = 20

	results := make([]projection.Views, n)

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			v, err := s.AddIncome(ctx, ledger.Income{Source: "Job", Amount: ledger.AmountFromInt(int64(i + 1))})
			results[i] = v

			return err
		})
	}

	require.NoError(t, g.Wait())

	seen := make(map[int]bool, n)
	for _, v := range results {
		seen[len(v.Incomes)] = true
	}

	assert.Len(t, seen, n, "every intent saw the state right after its own change")
	assert.Len(t, s.Views().Incomes, n)
}

func TestSession_ImportStatement(t *testing.T) {
	ctx := context.Background()
	s, _ := openSession(t)

	lines := []transaction.Input{
		{Type: transaction.TypeExpense, Description: "Coffee", Amount: ledger.MustAmount("1.50"), Date: "2025-01-08", Category: "Bank import"},
		{Type: transaction.TypeExpense, Description: "Coffee", Amount: ledger.MustAmount("1.50"), Date: "2025-01-08", Category: "Bank import"},
		{Type: transaction.TypeIncome, Description: "Salary", Amount: ledger.MustAmount("2000"), Date: "2024-12-30"},
	}

	added, v, err := s.ImportStatement(ctx, lines)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, s.Views(), v)
	assert.Equal(t, "2025-1", v.Period, "the active period is kept")
	assert.Len(t, v.Expenses, 2)
	assert.Empty(t, v.Incomes)

	added, _, err = s.ImportStatement(ctx, append(lines, transaction.Input{
		Type: transaction.TypeExpense, Description: "Coffee", Amount: ledger.MustAmount("1.5"), Date: "2025-01-08",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, added, "only the third coffee is new")
	assert.Len(t, s.Views().Expenses, 3)

	require.NoError(t, errOf(s.SetActivePeriod(ctx, 2024, time.December)))
	require.Len(t, s.Views().Incomes, 1)
	assert.Equal(t, "Salary", s.Views().Incomes[0].Source)

	_, _, err = s.ImportStatement(ctx, []transaction.Input{{Type: transaction.TypeExpense, Description: "Bad", Amount: ledger.MustAmount("-1"), Date: "2025-01-08"}})
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
	assert.ErrorContains(t, err, "line 1")
}
