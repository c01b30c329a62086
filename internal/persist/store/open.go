package store

import (
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/persist/memory"
)

// Open returns the store selected by cfg.Store.Driver and a func that releases it.
func Open(cfg *config.Config) (persist.Store, func() error, error) {
	if cfg.Store.Driver == config.StoreMemory {
		return memory.New(), func() error { return nil }, nil
	}

	driver := database.Driver(cfg.Store.Driver)

	db, err := database.New(driver, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}

	return New(db, driver), db.Close, nil
}
