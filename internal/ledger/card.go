package ledger

import "strings"

const maskRune = '•'

type CreditCard struct {
	Holder  string `json:"holder" validate:"notblank"`
	Number  string `json:"number" validate:"notblank"`
	Expiry  string `json:"expiry" validate:"notblank"`
	Balance Amount `json:"balance"`
	Type    string `json:"type"`
}

// MaskNumber hides every digit that is directly followed by at least four more
// digits, so "4111111111117899" becomes "••••••••••••7899". Groups separated by
// spaces are left alone.
func MaskNumber(number string) string {
	runes := []rune(number)

	var b strings.Builder

	for i, r := range runes {
		if isDigit(r) && digitsRun(runes[i+1:]) >= 4 {
			b.WriteRune(maskRune)
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// digitsRun counts the leading consecutive digits of rs.
func digitsRun(rs []rune) int {
	n := 0

	for _, r := range rs {
		if !isDigit(r) {
			break
		}

		n++
	}

	return n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Card returns the credit card, if one is set.
func (s *State) Card() (CreditCard, bool) {
	if s.card == nil {
		return CreditCard{}, false
	}

	return *s.card, true
}

func (s *State) SetCard(c CreditCard) {
	s.card = &c
}

func (s *State) ClearCard() {
	s.card = nil
}
