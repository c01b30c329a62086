package bill_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pocket/internal/bill"
	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

var today = date.New(2025, time.March, 10)

func due(days int) string { return today.Add(days).String() }

func TestClassify(t *testing.T) {
	type testCase struct {
		name          string
		bill          ledger.Bill
		wantKind      bill.Kind
		wantRemaining int
		wantUrgent    bool
		wantOverdue   int
	}

	tests := []testCase{
		{name: "DueToday", bill: ledger.Bill{DueDate: due(0)}, wantKind: bill.KindToday, wantUrgent: true},
		{name: "OneDayOverdue", bill: ledger.Bill{DueDate: due(-1)}, wantKind: bill.KindOverdue, wantRemaining: -1, wantUrgent: true, wantOverdue: 1},
		{name: "ThreeDaysLeft", bill: ledger.Bill{DueDate: due(3)}, wantKind: bill.KindUnpaid, wantRemaining: 3, wantUrgent: true},
		{name: "FourDaysLeft", bill: ledger.Bill{DueDate: due(4)}, wantKind: bill.KindUnpaid, wantRemaining: 4},
		{name: "PaidOverdue", bill: ledger.Bill{DueDate: due(-5), Paid: true}, wantKind: bill.KindPaid, wantRemaining: -5},
		{name: "UnpaddedDate", bill: ledger.Bill{DueDate: "2025-3-12"}, wantKind: bill.KindUnpaid, wantRemaining: 2, wantUrgent: true},
		{name: "BadDate", bill: ledger.Bill{DueDate: "someday"}, wantKind: bill.KindUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bill.Classify(today, tt.bill)

			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantRemaining, got.RemainingDays)
			assert.Equal(t, tt.wantUrgent, got.Urgent)
			assert.Equal(t, tt.wantOverdue, got.DaysOverdue())
		})
	}
}

func TestSorted(t *testing.T) {
	bills := []ledger.Bill{
		{Name: "paid-early", DueDate: due(-3), Paid: true},
		{Name: "undated", DueDate: ""},
		{Name: "later", DueDate: due(10)},
		{Name: "paid-late", DueDate: due(5), Paid: true},
		{Name: "soon", DueDate: due(1)},
		{Name: "overdue", DueDate: due(-2)},
	}

	got := bill.Sorted(today, bills)

	names := make([]string, len(got))
	for i, v := range got {
		names[i] = v.Bill.Name
	}

	assert.Equal(t, []string{"overdue", "soon", "later", "undated", "paid-early", "paid-late"}, names)
	assert.Equal(t, 5, got[0].Index)
	assert.Equal(t, 4, got[1].Index)
}

func TestUpcoming(t *testing.T) {
	bills := []ledger.Bill{
		{Name: "a", DueDate: due(7)},
		{Name: "b", DueDate: due(8)},
		{Name: "c", DueDate: due(-1)},
		{Name: "d", DueDate: due(2), Paid: true},
		{Name: "e", DueDate: due(0)},
		{Name: "f", DueDate: due(6)},
	}

	got := bill.Upcoming(bill.Sorted(today, bills))

	names := make([]string, len(got))
	for i, v := range got {
		names[i] = v.Bill.Name
	}

	assert.Equal(t, []string{"c", "e", "f"}, names)
	assert.Empty(t, bill.Upcoming(nil))
}
