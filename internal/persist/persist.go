package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

// DefaultKey is the storage key the whole state lives under.
const DefaultKey = "financeData"

var (
	ErrMalformed     = errors.New("malformed backup")
	ErrInvalidBackup = errors.New("invalid backup file")
)

//go:generate mockgen -source=persist.go -destination=store_mock.go -package=persist
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value under key in a single atomic write.
	Set(ctx context.Context, key, value string) error
}

// Adapter loads and saves the whole ledger as one JSON document.
type Adapter struct {
	store Store
	key   string
}

func NewAdapter(store Store, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}

	return &Adapter{store: store, key: key}
}

// Load returns the persisted state merged over the defaults. A missing or
// unreadable document yields the defaults; only store failures are errors.
func (a *Adapter) Load(ctx context.Context) (*ledger.State, error) {
	raw, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	if !ok {
		return ledger.NewState(), nil
	}

	var saved map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		slog.Warn("stored state is unreadable, using defaults", "key", a.key, "error", err)
		return ledger.NewState(), nil
	}

	s, err := merge(ledger.NewState(), saved)
	if err != nil {
		slog.Warn("stored state has invalid fields, using defaults", "key", a.key, "error", err)
		return ledger.NewState(), nil
	}

	return s, nil
}

// Save writes the full state.
func (a *Adapter) Save(ctx context.Context, s *ledger.State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if err := a.store.Set(ctx, a.key, string(b)); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	return nil
}

// ExportState serializes the entire state as an indented document.
func ExportState(s *ledger.State) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}

	return b, nil
}

// ExportFilename names a backup taken on the given day.
func ExportFilename(on date.Date) string {
	return fmt.Sprintf("finance-backup-%s.json", on)
}

// ImportState merges a backup document over current and returns the result.
// current is not modified. The only structural requirement is a non-null
// top-level "user"; other fields replace their counterparts whole.
func ImportState(current *ledger.State, blob []byte) (*ledger.State, error) {
	var top any
	if err := json.Unmarshal(blob, &top); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidBackup)
	}

	if user, ok := obj["user"]; !ok || user == nil {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidBackup)
	}

	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(blob, &overlay); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	s, err := merge(current, overlay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return s, nil
}

// merge replaces whole top-level fields of base with those present in
// overlay. There is no field-level merge: an overlay "categories" holding
// only "income" leaves the other category lists empty. Keys base does not
// have are ignored. The merged state keeps base's active period.
func merge(base *ledger.State, overlay map[string]json.RawMessage) (*ledger.State, error) {
	b, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encoding base state: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding base state: %w", err)
	}

	// base's top-level incomes and expenses mirror its active period, which
	// an overlay budgetByMonth replaces.
	if _, ok := overlay["budgetByMonth"]; ok {
		doc["incomes"] = json.RawMessage("[]")
		doc["expenses"] = json.RawMessage("[]")
	}

	for k, v := range overlay {
		if _, ok := doc[k]; ok {
			doc[k] = v
		}
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding merged state: %w", err)
	}

	var s ledger.State
	if err := json.Unmarshal(merged, &s); err != nil {
		return nil, fmt.Errorf("decoding merged state: %w", err)
	}

	if key := base.ActivePeriodKey(); key != "" {
		s.Activate(key)
	}

	return &s, nil
}
