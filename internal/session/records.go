package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
)

func (s *Session) AddGoal(ctx context.Context, g ledger.Goal) (projection.Views, error) {
	if err := ledger.Validate(g); err != nil {
		return projection.Views{}, err
	}

	return s.apply(ctx, func(st *ledger.State) error {
		st.Goals.Append(g)
		return nil
	})
}

func (s *Session) DeleteGoal(ctx context.Context, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		_, err := st.Goals.RemoveAt(i)
		return err
	})
}

// SaveAccount appends the account when i is NewRecord, otherwise replaces the account at i.
func (s *Session) SaveAccount(ctx context.Context, a ledger.Account, i int) (projection.Views, error) {
	if err := ledger.Validate(a); err != nil {
		return projection.Views{}, err
	}

	return s.apply(ctx, func(st *ledger.State) error {
		return save(&st.Accounts, a, i)
	})
}

func (s *Session) DeleteAccount(ctx context.Context, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		_, err := st.Accounts.RemoveAt(i)
		return err
	})
}

// SaveBill appends the bill when i is NewRecord, otherwise replaces the bill at i.
// The paid flag of an edited bill is kept.
func (s *Session) SaveBill(ctx context.Context, b ledger.Bill, i int) (projection.Views, error) {
	if err := ledger.Validate(b); err != nil {
		return projection.Views{}, err
	}

	return s.apply(ctx, func(st *ledger.State) error {
		if i == NewRecord {
			st.Bills.Append(b)
			return nil
		}

		return st.Bills.Update(i, func(old *ledger.Bill) {
			b.Paid = old.Paid
			*old = b
		})
	})
}

func (s *Session) DeleteBill(ctx context.Context, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		_, err := st.Bills.RemoveAt(i)
		return err
	})
}

func (s *Session) ToggleBillPaid(ctx context.Context, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		return st.Bills.Update(i, func(b *ledger.Bill) { b.Paid = !b.Paid })
	})
}

// SetCreditCard replaces the card. The number is stored masked.
func (s *Session) SetCreditCard(ctx context.Context, c ledger.CreditCard) (projection.Views, error) {
	if err := ledger.Validate(c); err != nil {
		return projection.Views{}, err
	}

	c.Number = ledger.MaskNumber(c.Number)

	return s.apply(ctx, func(st *ledger.State) error {
		st.SetCard(c)
		return nil
	})
}

func (s *Session) AddCategory(ctx context.Context, kind ledger.CategoryKind, name string) (projection.Views, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return projection.Views{}, fmt.Errorf("%w: name is required", ledger.ErrInvalidInput)
	}

	return s.apply(ctx, func(st *ledger.State) error {
		return st.Categories.Add(kind, name)
	})
}

func (s *Session) DeleteCategory(ctx context.Context, kind ledger.CategoryKind, i int) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		return st.Categories.RemoveAt(kind, i)
	})
}

// UpdateUser changes the name only when one is given and the avatar only
// when one is given.
func (s *Session) UpdateUser(ctx context.Context, u ledger.User) (projection.Views, error) {
	name := strings.TrimSpace(u.Name)
	avatar := strings.TrimSpace(u.Avatar)

	return s.apply(ctx, func(st *ledger.State) error {
		if name != "" {
			st.User.Name = name
		}

		if avatar != "" {
			st.User.Avatar = avatar
		}

		return nil
	})
}

func save[T any](c *ledger.Collection[T], rec T, i int) error {
	if i == NewRecord {
		c.Append(rec)
		return nil
	}

	return c.ReplaceAt(i, rec)
}
