package transaction

import (
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DefaultIncomeCategory labels incomes that were recorded without a category.
const DefaultIncomeCategory = "Income"

// Transaction is one row of the feed. It is derived from an Income or an
// Expense and never stored.
type Transaction struct {
	ID          string        `json:"id,omitempty"`
	Type        Type          `json:"type"`
	Amount      ledger.Amount `json:"amount"` // Negative for expenses
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Account     string        `json:"account,omitempty"`
	Date        string        `json:"date,omitempty"`
}

// Input is a transaction as entered in the add/edit form.
type Input struct {
	Type        Type          `json:"type" validate:"oneof=income expense"`
	Description string        `json:"description" validate:"notblank"`
	Amount      ledger.Amount `json:"amount" validate:"gt=0"`
	Date        string        `json:"date" validate:"date"`
	Category    string        `json:"category"`
	Account     string        `json:"account"`
}

// Income converts the input to an income record carrying id.
func (in Input) Income(id string) ledger.Income {
	return ledger.Income{
		ID:       id,
		Source:   in.Description,
		Amount:   in.Amount,
		Date:     in.Date,
		Category: in.Category,
		Account:  in.Account,
	}
}

// Expense converts the input to an expense record carrying id.
func (in Input) Expense(id string) ledger.Expense {
	return ledger.Expense{
		ID:          id,
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		Account:     in.Account,
	}
}

func FromIncome(i ledger.Income) Transaction {
	category := i.Category
	if category == "" {
		category = DefaultIncomeCategory
	}

	return Transaction{
		ID:          i.ID,
		Type:        TypeIncome,
		Amount:      i.Amount,
		Description: i.Source,
		Category:    category,
		Account:     i.Account,
		Date:        i.Date,
	}
}

func FromExpense(e ledger.Expense) Transaction {
	return Transaction{
		ID:          e.ID,
		Type:        TypeExpense,
		Amount:      e.Amount.Neg(),
		Description: e.Description,
		Category:    e.Category,
		Account:     e.Account,
		Date:        e.Date,
	}
}
