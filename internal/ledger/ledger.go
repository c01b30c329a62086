package ledger

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownCategory = errors.New("unknown category kind")
)

// Income is money received in a budget period.
type Income struct {
	ID       string `json:"id,omitempty"`
	Source   string `json:"source" validate:"notblank"`
	Amount   Amount `json:"amount" validate:"gt=0"`
	Date     string `json:"date,omitempty" validate:"omitempty,date"`
	Category string `json:"category,omitempty"`
	Account  string `json:"account,omitempty"`
}

// Expense is money spent in a budget period.
type Expense struct {
	ID          string `json:"id,omitempty"`
	Category    string `json:"category" validate:"notblank"`
	Amount      Amount `json:"amount" validate:"gt=0"`
	Date        string `json:"date,omitempty" validate:"omitempty,date"`
	Description string `json:"description,omitempty"`
	Account     string `json:"account,omitempty"`
}

// key identifies the record: its id, or the legacy triple when it has none.
func (i Income) key() string {
	if i.ID != "" {
		return "id|" + i.ID
	}

	return "income|" + i.Source + "|" + i.Amount.String() + "|" + i.Date
}

func (e Expense) key() string {
	if e.ID != "" {
		return "id|" + e.ID
	}

	return "expense|" + e.Description + "|" + e.Category + "|" + e.Amount.String() + "|" + e.Date
}

type Goal struct {
	Name     string `json:"name" validate:"notblank"`
	Target   Amount `json:"target" validate:"gt=0"`
	Current  Amount `json:"current" validate:"gte=0"`
	Deadline string `json:"deadline,omitempty" validate:"omitempty,date"`
}

type Account struct {
	Name    string `json:"name" validate:"notblank"`
	Number  string `json:"number" validate:"notblank"`
	Balance Amount `json:"balance"`
}

type Bill struct {
	Name    string `json:"name" validate:"notblank"`
	DueDate string `json:"dueDate" validate:"date"`
	Amount  Amount `json:"amount" validate:"gt=0"`
	Paid    bool   `json:"paid"`
}

// Product is an item on the shopping list. FolderID is nil for ungrouped products.
type Product struct {
	Name     string `json:"name" validate:"notblank"`
	Category string `json:"category"`
	Price    Amount `json:"price" validate:"gt=0"`
	Qty      int    `json:"qty" validate:"min=1"`
	FolderID *int64 `json:"folderId"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Total is price times quantity.
func (p Product) Total() Amount {
	return p.Price.Mul(AmountFromInt(int64(p.Qty)))
}

// Folder groups shopping products. IDs are Unix milliseconds at creation.
type Folder struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"notblank"`
}

type User struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// NewID returns a time-ordered record identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
