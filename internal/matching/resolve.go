package matching

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

var ErrNotFound = errors.New("transaction not found")

// Target locates the record behind a feed row.
type Target struct {
	Type        transaction.Type
	Index       int // position in the incomes or expenses collection
	Transaction transaction.Transaction
}

// Resolve maps a feed index back to the record it was derived from. The feed
// is rebuilt from incomes and expenses exactly as it was displayed.
//
// Records carrying an ID are matched by ID. Records without one are matched on
// (description, absolute amount, date) and the first match in collection
// order wins, so when two records share that triple the first one is always
// chosen, whichever row was picked.
func Resolve(incomes []ledger.Income, expenses []ledger.Expense, feedIndex int) (Target, error) {
	feed := transaction.Build(incomes, expenses)
	if feedIndex < 0 || feedIndex >= len(feed) {
		return Target{}, fmt.Errorf("%w: feed index %d of %d", ErrNotFound, feedIndex, len(feed))
	}

	tx := feed[feedIndex]

	var idx int

	switch tx.Type {
	case transaction.TypeIncome:
		idx = findIncome(incomes, tx)
	case transaction.TypeExpense:
		idx = findExpense(expenses, tx)
	default:
		idx = -1
	}

	if idx < 0 {
		return Target{}, fmt.Errorf("%w: %s %q", ErrNotFound, tx.Type, tx.Description)
	}

	return Target{Type: tx.Type, Index: idx, Transaction: tx}, nil
}

func findIncome(incomes []ledger.Income, tx transaction.Transaction) int {
	for i, in := range incomes {
		if tx.ID != "" {
			if in.ID == tx.ID {
				return i
			}

			continue
		}

		if in.ID == "" && in.Source == tx.Description && in.Amount.Equal(tx.Amount.Abs()) && in.Date == tx.Date {
			return i
		}
	}

	return -1
}

func findExpense(expenses []ledger.Expense, tx transaction.Transaction) int {
	for i, e := range expenses {
		if tx.ID != "" {
			if e.ID == tx.ID {
				return i
			}

			continue
		}

		if e.ID == "" && e.Description == tx.Description && e.Amount.Equal(tx.Amount.Abs()) && e.Date == tx.Date {
			return i
		}
	}

	return -1
}
