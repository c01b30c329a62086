package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
)

// AddProduct puts a product on the shopping list, outside any folder.
func (s *Session) AddProduct(ctx context.Context, p ledger.Product) (projection.Views, error) {
	if err := ledger.Validate(p); err != nil {
		return projection.Views{}, err
	}

	p.FolderID = nil

	return s.apply(ctx, func(st *ledger.State) error {
		st.Products.Append(p)
		return nil
	})
}

// DeleteProduct removes the first product with the given name.
func (s *Session) DeleteProduct(ctx context.Context, name string) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		if !st.Products.RemoveWhere(func(p ledger.Product) bool { return p.Name == name }) {
			return fmt.Errorf("%w: product %q", ErrNotFound, name)
		}

		return nil
	})
}

// CreateFolder adds an empty folder whose id is the current Unix time in
// milliseconds, bumped past any existing id.
func (s *Session) CreateFolder(ctx context.Context, name string) (ledger.Folder, projection.Views, error) {
	f := ledger.Folder{Name: strings.TrimSpace(name)}
	if err := ledger.Validate(f); err != nil {
		return ledger.Folder{}, projection.Views{}, err
	}

	views, err := s.apply(ctx, func(st *ledger.State) error {
		f.ID = s.clock().UnixMilli()
		for folderIndex(st, f.ID) >= 0 {
			f.ID++
		}

		st.Folders.Append(f)

		return nil
	})
	if err != nil {
		return ledger.Folder{}, projection.Views{}, err
	}

	return f, views, nil
}

// DeleteFolder removes the folder and every product in it.
func (s *Session) DeleteFolder(ctx context.Context, id int64) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		if !st.Folders.RemoveWhere(func(f ledger.Folder) bool { return f.ID == id }) {
			return fmt.Errorf("%w: folder %d", ErrNotFound, id)
		}

		st.Products.RemoveAll(func(p ledger.Product) bool {
			return p.FolderID != nil && *p.FolderID == id
		})

		return nil
	})
}

// MoveProduct moves the first product with the given name into the folder.
// A nil folderID takes it out of its folder.
func (s *Session) MoveProduct(ctx context.Context, name string, folderID *int64) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		if folderID != nil && folderIndex(st, *folderID) < 0 {
			return fmt.Errorf("%w: folder %d", ErrNotFound, *folderID)
		}

		i := st.Products.IndexWhere(func(p ledger.Product) bool { return p.Name == name })
		if i < 0 {
			return fmt.Errorf("%w: product %q", ErrNotFound, name)
		}

		return st.Products.Update(i, func(p *ledger.Product) {
			if folderID == nil {
				p.FolderID = nil
				return
			}

			p.FolderID = new(*folderID)
		})
	})
}

func folderIndex(st *ledger.State, id int64) int {
	return st.Folders.IndexWhere(func(f ledger.Folder) bool { return f.ID == id })
}
