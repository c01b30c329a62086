package cgd

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

// parseEuropeanAmount parses "1.234,56" style amounts. The sign is kept.
func parseEuropeanAmount(s string) (ledger.Amount, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	clean = strings.ReplaceAll(clean, " ", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return ledger.Amount{}, err
	}

	return ledger.NewAmount(d.Round(2)), nil
}
