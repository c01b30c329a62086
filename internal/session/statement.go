package session

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// ImportStatement files bank statement lines into the budget period of their
// own date, whatever period is active. A line is skipped when its period
// already held a record with the same type, date, amount and description
// before the import, so an overlapping statement can be imported twice.
// It returns how many records were added.
func (s *Session) ImportStatement(ctx context.Context, txs []transaction.Input) (int, projection.Views, error) {
	days := make([]date.Date, len(txs))

	for i, in := range txs {
		if err := ledger.Validate(in); err != nil {
			return 0, projection.Views{}, fmt.Errorf("line %d: %w", i+1, err)
		}

		d, err := date.Parse(in.Date)
		if err != nil {
			return 0, projection.Views{}, fmt.Errorf("line %d: %w: %v", i+1, ledger.ErrInvalidInput, err)
		}

		days[i] = d
	}

	added := 0

	views, err := s.apply(ctx, func(st *ledger.State) error {
		added = 0
		// existing counts the records each period held before this import.
		existing := make(map[*ledger.BudgetPeriod]map[string]int)

		for i, in := range txs {
			p := st.Period(days[i].Year(), days[i].Month())

			seen, ok := existing[p]
			if !ok {
				seen = periodLines(p)
				existing[p] = seen
			}

			key := lineKey(in.Type, in.Date, in.Description, in.Amount)
			if seen[key] > 0 {
				seen[key]--
				continue
			}

			if in.Type == transaction.TypeIncome {
				p.Incomes.Append(in.Income(ledger.NewID()))
			} else {
				p.Expenses.Append(in.Expense(ledger.NewID()))
			}

			added++
		}

		return nil
	})
	if err != nil {
		return 0, projection.Views{}, err
	}

	return added, views, nil
}

func periodLines(p *ledger.BudgetPeriod) map[string]int {
	lines := make(map[string]int)

	for _, r := range p.Incomes.All() {
		lines[lineKey(transaction.TypeIncome, r.Date, r.Source, r.Amount)]++
	}

	for _, r := range p.Expenses.All() {
		lines[lineKey(transaction.TypeExpense, r.Date, r.Description, r.Amount)]++
	}

	return lines
}

func lineKey(kind transaction.Type, day, desc string, amount ledger.Amount) string {
	return fmt.Sprintf("%s|%s|%s|%s", kind, day, desc, amount.Decimal().String())
}
