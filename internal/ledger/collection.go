package ledger

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Collection is an ordered list of records. Order is insertion order and is
// meaningful for display and for first-match removal.
type Collection[T any] struct {
	items []T
}

func NewCollection[T any](items ...T) Collection[T] {
	return Collection[T]{items: slices.Clone(items)}
}

func (c *Collection[T]) Len() int { return len(c.items) }

// All returns a copy of the records.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)

	return out
}

func (c *Collection[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.items))
	}

	return c.items[i], nil
}

func (c *Collection[T]) Append(rec T) {
	c.items = append(c.items, rec)
}

// IndexWhere returns the index of the first record matching pred, or -1.
func (c *Collection[T]) IndexWhere(pred func(T) bool) int {
	return slices.IndexFunc(c.items, pred)
}

// RemoveWhere removes the first record matching pred and reports whether one was removed.
func (c *Collection[T]) RemoveWhere(pred func(T) bool) bool {
	i := c.IndexWhere(pred)
	if i < 0 {
		return false
	}

	c.items = slices.Delete(c.items, i, i+1)

	return true
}

// RemoveAll removes every record matching pred and returns how many were removed.
func (c *Collection[T]) RemoveAll(pred func(T) bool) int {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, pred)

	return before - len(c.items)
}

func (c *Collection[T]) RemoveAt(i int) (T, error) {
	rec, err := c.At(i)
	if err != nil {
		return rec, err
	}

	c.items = slices.Delete(c.items, i, i+1)

	return rec, nil
}

func (c *Collection[T]) ReplaceAt(i int, rec T) error {
	if _, err := c.At(i); err != nil {
		return err
	}

	c.items[i] = rec

	return nil
}

// Update applies fn to the record at i in place.
func (c *Collection[T]) Update(i int, fn func(*T)) error {
	if _, err := c.At(i); err != nil {
		return err
	}

	fn(&c.items[i])

	return nil
}

func (c Collection[T]) clone() Collection[T] {
	return Collection[T]{items: slices.Clone(c.items)}
}

// MarshalJSON writes an empty collection as [] rather than null.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(c.items)
}

func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}

	c.items = items

	return nil
}
