package session

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// AddIncome appends an income to the active period.
func (s *Session) AddIncome(ctx context.Context, in ledger.Income) (projection.Views, error) {
	if err := ledger.Validate(in); err != nil {
		return projection.Views{}, err
	}

	in.ID = ledger.NewID()

	return s.apply(ctx, func(st *ledger.State) error {
		st.Incomes().Append(in)
		return nil
	})
}

// AddExpense appends an expense to the active period.
func (s *Session) AddExpense(ctx context.Context, e ledger.Expense) (projection.Views, error) {
	if err := ledger.Validate(e); err != nil {
		return projection.Views{}, err
	}

	e.ID = ledger.NewID()

	return s.apply(ctx, func(st *ledger.State) error {
		st.Expenses().Append(e)
		return nil
	})
}

func (s *Session) RemoveIncomeAt(ctx context.Context, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		_, err := st.Incomes().RemoveAt(i)
		return err
	})
}

func (s *Session) RemoveExpenseAt(ctx context.Context, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		_, err := st.Expenses().RemoveAt(i)
		return err
	})
}

// SaveTransaction adds a transaction when feedIndex is NewRecord, otherwise
// it replaces the record behind that feed row. Changing the type moves the
// record to the other collection.
func (s *Session) SaveTransaction(ctx context.Context, in transaction.Input, feedIndex int) (projection.Views, error) {
	if err := ledger.Validate(in); err != nil {
		return projection.Views{}, err
	}

	return s.apply(ctx, func(st *ledger.State) error {
		if feedIndex == NewRecord {
			appendTransaction(st, in, ledger.NewID())
			return nil
		}

		target, err := matching.Resolve(st.Incomes().All(), st.Expenses().All(), feedIndex)
		if err != nil {
			return err
		}

		id := target.Transaction.ID
		if id == "" {
			id = ledger.NewID()
		}

		if target.Type == in.Type {
			switch in.Type {
			case transaction.TypeIncome:
				return st.Incomes().ReplaceAt(target.Index, in.Income(id))
			default:
				return st.Expenses().ReplaceAt(target.Index, in.Expense(id))
			}
		}

		if err := removeTarget(st, target); err != nil {
			return err
		}

		appendTransaction(st, in, id)

		return nil
	})
}

// DeleteTransaction removes the record behind a feed row.
func (s *Session) DeleteTransaction(ctx context.Context, feedIndex int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		target, err := matching.Resolve(st.Incomes().All(), st.Expenses().All(), feedIndex)
		if err != nil {
			return err
		}

		return removeTarget(st, target)
	})
}

func appendTransaction(st *ledger.State, in transaction.Input, id string) {
	if in.Type == transaction.TypeIncome {
		st.Incomes().Append(in.Income(id))
		return
	}

	st.Expenses().Append(in.Expense(id))
}

func removeTarget(st *ledger.State, target matching.Target) error {
	var err error

	switch target.Type {
	case transaction.TypeIncome:
		_, err = st.Incomes().RemoveAt(target.Index)
	case transaction.TypeExpense:
		_, err = st.Expenses().RemoveAt(target.Index)
	default:
		err = fmt.Errorf("%w: unknown type %q", matching.ErrNotFound, target.Type)
	}

	return err
}
