// Package importer turns bank statement exports into feed transactions.
package importer

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/MrJamesThe3rd/pocket/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

var ErrUnknownBank = errors.New("unknown bank")

// Parser reads one bank's statement format.
type Parser interface {
	Parse(r io.Reader) ([]transaction.Input, error)
}

type Service struct {
	parsers map[Bank]Parser
}

func NewService() *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD: cgd.NewParser(),
		},
	}
}

// Banks lists the supported statement formats.
func (s *Service) Banks() []Bank {
	banks := make([]Bank, 0, len(s.parsers))
	for b := range s.parsers {
		banks = append(banks, b)
	}

	slices.Sort(banks)

	return banks
}

func (s *Service) Parse(bank Bank, r io.Reader) ([]transaction.Input, error) {
	p, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBank, bank)
	}

	txs, err := p.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s statement: %w", bank, err)
	}

	return txs, nil
}
