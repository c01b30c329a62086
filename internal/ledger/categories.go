package ledger

import (
	"fmt"
	"slices"
)

type CategoryKind string

const (
	KindIncome   CategoryKind = "income"
	KindExpenses CategoryKind = "expenses"
	KindSavings  CategoryKind = "savings"
)

// BuiltinExpenseCategories are always offered for expenses after the custom ones.
var BuiltinExpenseCategories = []string{"Cafes & Restaurants", "Groceries", "Transport", "Entertainment", "Utilities"}

// Categories are user-defined labels per kind, kept in display order.
type Categories struct {
	Income   []string `json:"income"`
	Expenses []string `json:"expenses"`
	Savings  []string `json:"savings"`
}

func (c *Categories) list(kind CategoryKind) (*[]string, error) {
	switch kind {
	case KindIncome:
		return &c.Income, nil
	case KindExpenses:
		return &c.Expenses, nil
	case KindSavings:
		return &c.Savings, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, kind)
}

func (c *Categories) List(kind CategoryKind) ([]string, error) {
	l, err := c.list(kind)
	if err != nil {
		return nil, err
	}

	return slices.Clone(*l), nil
}

func (c *Categories) Add(kind CategoryKind, name string) error {
	l, err := c.list(kind)
	if err != nil {
		return err
	}

	*l = append(*l, name)

	return nil
}

func (c *Categories) RemoveAt(kind CategoryKind, i int) error {
	l, err := c.list(kind)
	if err != nil {
		return err
	}

	if i < 0 || i >= len(*l) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(*l))
	}

	*l = slices.Delete(*l, i, i+1)

	return nil
}

// ExpenseChoices returns custom expense categories followed by the built-ins.
func (c *Categories) ExpenseChoices() []string {
	return append(slices.Clone(c.Expenses), BuiltinExpenseCategories...)
}

func (c Categories) clone() Categories {
	return Categories{
		Income:   slices.Clone(c.Income),
		Expenses: slices.Clone(c.Expenses),
		Savings:  slices.Clone(c.Savings),
	}
}

func (c *Categories) normalize() {
	for _, l := range []*[]string{&c.Income, &c.Expenses, &c.Savings} {
		if *l == nil {
			*l = []string{}
		}
	}
}
