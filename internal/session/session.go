package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
)

// NewRecord is passed as the index of Save* intents to append instead of edit.
const NewRecord = -1

var ErrNotFound = errors.New("record not found")

// Session owns the ledger of one user. Intents are applied one at a time:
// validate, mutate, save, then recompute the views.
type Session struct {
	mu        sync.Mutex
	state     *ledger.State
	adapter   *persist.Adapter
	clock     func() time.Time
	views     projection.Views
	listeners []func(projection.Views)
}

type Option func(*Session)

// WithClock replaces time.Now. The clock decides the current month, bill
// urgency, export names and folder ids.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// Open loads the persisted state and activates the current month.
func Open(ctx context.Context, adapter *persist.Adapter, opts ...Option) (*Session, error) {
	s := &Session{adapter: adapter, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	st, err := adapter.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	now := s.clock()
	st.SetActivePeriod(now.Year(), now.Month())

	s.state = st
	s.views = projection.Build(st.Clone(), date.Of(now))

	return s, nil
}

// Views returns the projections of the last applied intent.
func (s *Session) Views() projection.Views {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.views
}

// OnChange registers fn to receive fresh views after every applied intent.
// fn runs outside the session lock and may call back into the session.
func (s *Session) OnChange(fn func(projection.Views)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Today is the current day according to the session clock.
func (s *Session) Today() date.Date {
	return date.Of(s.clock())
}

// apply runs mutate under the lock and returns the views built from its
// result. A failed mutate must leave the state untouched. A failed save
// keeps the mutation in memory and skips the view refresh.
func (s *Session) apply(ctx context.Context, mutate func(st *ledger.State) error) (projection.Views, error) {
	s.mu.Lock()

	if err := mutate(s.state); err != nil {
		s.mu.Unlock()
		return projection.Views{}, err
	}

	if err := s.adapter.Save(ctx, s.state); err != nil {
		s.mu.Unlock()
		return projection.Views{}, fmt.Errorf("saving state: %w", err)
	}

	s.views = projection.Build(s.state.Clone(), s.Today())
	views := s.views
	listeners := slices.Clone(s.listeners)

	s.mu.Unlock()

	for _, fn := range listeners {
		fn(views)
	}

	return views, nil
}

// SetActivePeriod switches the working set to the (year, month) budget period.
func (s *Session) SetActivePeriod(ctx context.Context, year int, month time.Month) (projection.Views, error) {
	if month < time.January || month > time.December {
		return projection.Views{}, fmt.Errorf("%w: month %d", ledger.ErrInvalidInput, month)
	}

	return s.apply(ctx, func(st *ledger.State) error {
		st.SetActivePeriod(year, month)
		return nil
	})
}

// Export returns the backup document and the file name it should be saved as.
func (s *Session) Export(_ context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := persist.ExportState(s.state)
	if err != nil {
		return nil, "", err
	}

	return b, persist.ExportFilename(s.Today()), nil
}

// Import merges a backup over the current state. A rejected backup leaves
// the state unchanged.
func (s *Session) Import(ctx context.Context, blob []byte) (projection.Views, error) {
	return s.apply(ctx, func(st *ledger.State) error {
		imported, err := persist.ImportState(st, blob)
		if err != nil {
			return err
		}

		*st = *imported

		return nil
	})
}
