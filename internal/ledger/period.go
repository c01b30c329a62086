package ledger

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// BudgetPeriod holds the incomes and expenses of one budget month.
type BudgetPeriod struct {
	Incomes  Collection[Income]  `json:"incomes"`
	Expenses Collection[Expense] `json:"expenses"`
}

func (p *BudgetPeriod) empty() bool {
	return p.Incomes.Len() == 0 && p.Expenses.Len() == 0
}

func (p *BudgetPeriod) clone() *BudgetPeriod {
	return &BudgetPeriod{Incomes: p.Incomes.clone(), Expenses: p.Expenses.clone()}
}

// PeriodKey formats a budget period key. Months are not zero-padded, so
// "2025-1" and "2025-01" are different periods.
func PeriodKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%d", year, int(month))
}

// Periods returns the sorted keys of all stored budget periods.
func (s *State) Periods() []string {
	return slices.Sorted(maps.Keys(s.periods))
}

// LoadPeriod returns the stored period for key, creating and storing an empty
// one when the key has not been seen before.
func (s *State) LoadPeriod(key string) *BudgetPeriod {
	if p, ok := s.periods[key]; ok && p != nil {
		return p
	}

	p := &BudgetPeriod{}
	s.periods[key] = p

	return p
}

// Period returns the collections of the (year, month) period.
func (s *State) Period(year int, month time.Month) *BudgetPeriod {
	return s.LoadPeriod(PeriodKey(year, month))
}

// ActivePeriodKey returns the key of the period the working set points at.
// It is empty until SetActivePeriod is called.
func (s *State) ActivePeriodKey() string { return s.active }

// SetActivePeriod makes the (year, month) period the active working set.
func (s *State) SetActivePeriod(year int, month time.Month) {
	s.Activate(PeriodKey(year, month))
}

// Activate makes the period stored under key the active working set.
// Detached top-level records are adopted by the period when it does not
// exist yet and no stored period holds them. Saved documents mirror their
// active period at the top level, so that copy is dropped.
func (s *State) Activate(key string) {
	if s.detached != nil {
		if _, ok := s.periods[key]; !ok && !s.detached.empty() && !s.stored(s.detached) {
			s.periods[key] = s.detached
		}

		s.detached = nil
	}

	s.LoadPeriod(key)
	s.active = key
}

func (s *State) activePeriod() *BudgetPeriod {
	if s.active == "" {
		if s.detached == nil {
			s.detached = &BudgetPeriod{}
		}

		return s.detached
	}

	return s.LoadPeriod(s.active)
}

// Incomes returns the active period's incomes. Mutations apply to the stored period.
func (s *State) Incomes() *Collection[Income] { return &s.activePeriod().Incomes }

// Expenses returns the active period's expenses. Mutations apply to the stored period.
func (s *State) Expenses() *Collection[Expense] { return &s.activePeriod().Expenses }

// stored reports whether any record of p is already held by a stored period.
func (s *State) stored(p *BudgetPeriod) bool {
	held := make(map[string]struct{})

	for _, sp := range s.periods {
		for _, r := range sp.Incomes.All() {
			held[r.key()] = struct{}{}
		}

		for _, r := range sp.Expenses.All() {
			held[r.key()] = struct{}{}
		}
	}

	if len(held) == 0 {
		return false
	}

	for _, r := range p.Incomes.All() {
		if _, ok := held[r.key()]; ok {
			return true
		}
	}

	for _, r := range p.Expenses.All() {
		if _, ok := held[r.key()]; ok {
			return true
		}
	}

	return false
}
