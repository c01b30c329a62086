package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/pocket/internal/encoding"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

const (
	statementDate = "02-01-2006"

	// Category is assigned to imported expenses. Incomes get the default
	// income category from the feed.
	Category = "Bank import"
	// Account labels every imported record.
	Account = "CGD"
)

var ErrUnknownFormat = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

// Parser reads CGD bank CSV exports. The layout (conta, extrato, cartão) is
// detected from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.Input, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	prof, cols, headerIdx, ok := detectProfile(rows)
	if !ok {
		return nil, ErrUnknownFormat
	}

	return parseRows(prof, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

// detectProfile returns the first profile whose columns all appear in one row.
func detectProfile(rows [][]string) (profile, colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for _, p := range profiles {
			if matches(p, cols) {
				return p, cols, rowIdx, true
			}
		}
	}

	return profile{}, nil, 0, false
}

func matches(p profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a date or a non-zero amount, which covers
// footers and page markers. firstRow is the 0-based file index of rows[0].
func parseRows(p profile, cols colIndex, rows [][]string, firstRow int) ([]transaction.Input, error) {
	var txs []transaction.Input

	for i, row := range rows {
		date, ok := parseDate(cellValue(row, cols[p.dateCol]))
		if !ok {
			continue
		}

		amount, kind, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, cols[p.descCol])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", firstRow+i+1)
		}

		in := transaction.Input{
			Type:        kind,
			Description: desc,
			Amount:      amount,
			Date:        date,
			Account:     Account,
		}

		if kind == transaction.TypeExpense {
			in.Category = Category
		}

		txs = append(txs, in)
	}

	return txs, nil
}

// parseDate converts a DD-MM-YYYY cell to YYYY-MM-DD.
func parseDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	t, err := time.Parse(statementDate, s)
	if err != nil {
		return "", false
	}

	return t.Format(time.DateOnly), true
}

func parseAmount(p profile, cols colIndex, row []string) (ledger.Amount, transaction.Type, bool) {
	switch p.amountMode {
	case amountSingle:
		return signedAmount(cellValue(row, cols[p.amountCol]))
	case amountSplit:
		if a, ok := unsignedAmount(cellValue(row, cols[p.debitCol])); ok {
			return a, transaction.TypeExpense, true
		}

		if a, ok := unsignedAmount(cellValue(row, cols[p.creditCol])); ok {
			return a, transaction.TypeIncome, true
		}
	}

	return ledger.Amount{}, "", false
}

// signedAmount reads a single signed column. Negative values are expenses.
func signedAmount(s string) (ledger.Amount, transaction.Type, bool) {
	a, ok := unsignedAmount(s)
	if !ok {
		return ledger.Amount{}, "", false
	}

	if strings.HasPrefix(strings.TrimSpace(s), "-") {
		return a, transaction.TypeExpense, true
	}

	return a, transaction.TypeIncome, true
}

func unsignedAmount(s string) (ledger.Amount, bool) {
	if s == "" {
		return ledger.Amount{}, false
	}

	a, err := parseEuropeanAmount(s)
	if err != nil || a.IsZero() {
		return ledger.Amount{}, false
	}

	return a.Abs(), true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
