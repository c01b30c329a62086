package transaction

import (
	"slices"

	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

// Build merges incomes and expenses into the feed: incomes first, then
// expenses, stably sorted by date with the newest first. Rows with equal
// dates keep their relative order, so on a tie incomes come before expenses
// and each group stays in insertion order. Missing or unparseable dates sort
// as the oldest.
func Build(incomes []ledger.Income, expenses []ledger.Expense) []Transaction {
	type row struct {
		tx     Transaction
		on     date.Date
		hasDay bool
	}

	rows := make([]row, 0, len(incomes)+len(expenses))

	add := func(tx Transaction) {
		on, err := date.Parse(tx.Date)
		rows = append(rows, row{tx: tx, on: on, hasDay: err == nil})
	}

	for _, i := range incomes {
		add(FromIncome(i))
	}

	for _, e := range expenses {
		add(FromExpense(e))
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		switch {
		case a.hasDay && b.hasDay:
			return b.on.Compare(a.on)
		case a.hasDay:
			return -1
		case b.hasDay:
			return 1
		}

		return 0
	})

	feed := make([]Transaction, len(rows))
	for i, r := range rows {
		feed[i] = r.tx
	}

	return feed
}

// Recent returns at most n transactions from the head of the feed.
func Recent(feed []Transaction, n int) []Transaction {
	if len(feed) > n {
		feed = feed[:n]
	}

	return slices.Clone(feed)
}
