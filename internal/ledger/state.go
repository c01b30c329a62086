package ledger

import (
	"encoding/json"
	"maps"
)

// State is the canonical in-memory ledger. It is not safe for concurrent use;
// the owning session serializes access.
type State struct {
	Goals      Collection[Goal]
	Accounts   Collection[Account]
	Bills      Collection[Bill]
	Products   Collection[Product]
	Folders    Collection[Folder]
	Categories Categories
	User       User

	card    *CreditCard
	periods map[string]*BudgetPeriod
	active  string

	// detached holds incomes and expenses that are not yet attached to a
	// period, either because no period is active or because they came from
	// the top level of a loaded document.
	detached *BudgetPeriod
}

// NewState returns a state holding the defaults of a fresh install.
func NewState() *State {
	return &State{
		Accounts: NewCollection(
			Account{Name: "Salary", Number: "••••• 2305", Balance: AmountFromInt(503)},
			Account{Name: "Virtual cash account", Number: "Cash", Balance: AmountFromInt(849)},
			Account{Name: "Credit Card", Number: "••••• 2305", Balance: AmountFromInt(34)},
			Account{Name: "Savings", Number: "••••• 1207", Balance: AmountFromInt(15000)},
		),
		Categories: Categories{
			Income:   []string{"Salary", "Freelance"},
			Expenses: []string{"Rent", "Subscriptions"},
			Savings:  []string{"Emergency Fund", "Travel"},
		},
		User: User{Name: "Stefania Nord", Avatar: "https://via.placeholder.com/40"},
		card: &CreditCard{
			Holder:  "Stefania Nord",
			Number:  "•••• •••• •••• 7899",
			Expiry:  "05/24",
			Balance: AmountFromInt(1425),
			Type:    "VISA",
		},
		periods: map[string]*BudgetPeriod{},
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		Goals:      s.Goals.clone(),
		Accounts:   s.Accounts.clone(),
		Bills:      s.Bills.clone(),
		Products:   s.Products.clone(),
		Folders:    s.Folders.clone(),
		Categories: s.Categories.clone(),
		User:       s.User,
		active:     s.active,
		periods:    make(map[string]*BudgetPeriod, len(s.periods)),
	}

	if s.card != nil {
		card := *s.card
		c.card = &card
	}

	for k, p := range s.periods {
		c.periods[k] = p.clone()
	}

	if s.detached != nil {
		c.detached = s.detached.clone()
	}

	return c
}

// document is the persisted shape of the state.
type document struct {
	Incomes       Collection[Income]       `json:"incomes"`
	Expenses      Collection[Expense]      `json:"expenses"`
	Goals         Collection[Goal]         `json:"goals"`
	Products      Collection[Product]      `json:"products"`
	Folders       Collection[Folder]       `json:"folders"`
	CreditCards   Collection[CreditCard]   `json:"creditCards"`
	User          User                     `json:"user"`
	BudgetByMonth map[string]*BudgetPeriod `json:"budgetByMonth"`
	Accounts      Collection[Account]      `json:"accounts"`
	Categories    Categories               `json:"categories"`
	Bills         Collection[Bill]         `json:"bills"`
}

// MarshalJSON writes the state in its persisted shape. The top-level incomes
// and expenses are those of the active period.
func (s *State) MarshalJSON() ([]byte, error) {
	current := s.detached
	if s.active != "" {
		current = s.periods[s.active]
	}

	if current == nil {
		current = &BudgetPeriod{}
	}

	doc := document{
		Incomes:       current.Incomes,
		Expenses:      current.Expenses,
		Goals:         s.Goals,
		Products:      s.Products,
		Folders:       s.Folders,
		User:          s.User,
		BudgetByMonth: s.periods,
		Accounts:      s.Accounts,
		Categories:    s.Categories,
		Bills:         s.Bills,
	}

	if s.card != nil {
		doc.CreditCards = NewCollection(*s.card)
	}

	if doc.BudgetByMonth == nil {
		doc.BudgetByMonth = map[string]*BudgetPeriod{}
	}

	doc.Categories.normalize()

	return json.Marshal(doc)
}

// UnmarshalJSON replaces the state with the decoded document. No period is
// active afterwards; the top-level incomes and expenses stay detached until
// SetActivePeriod adopts them.
func (s *State) UnmarshalJSON(b []byte) error {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	*s = State{
		Goals:      doc.Goals,
		Accounts:   doc.Accounts,
		Bills:      doc.Bills,
		Products:   doc.Products,
		Folders:    doc.Folders,
		Categories: doc.Categories,
		User:       doc.User,
		periods:    make(map[string]*BudgetPeriod, len(doc.BudgetByMonth)),
		detached:   &BudgetPeriod{Incomes: doc.Incomes, Expenses: doc.Expenses},
	}

	if card, err := doc.CreditCards.At(0); err == nil {
		s.card = &card
	}

	maps.Copy(s.periods, doc.BudgetByMonth)

	for k, p := range s.periods {
		if p == nil {
			s.periods[k] = &BudgetPeriod{}
		}
	}

	s.Categories.normalize()

	return nil
}
