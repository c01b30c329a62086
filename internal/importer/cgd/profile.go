package cgd

type amountMode int

const (
	// amountSingle is one signed column, e.g. "Montante" holding "-10,00".
	amountSingle amountMode = iota
	// amountSplit is a debit column and a credit column.
	amountSplit
)

// profile describes the column layout of one CGD export.
type profile struct {
	name       string
	dateCol    string
	descCol    string
	amountMode amountMode
	amountCol  string
	debitCol   string
	creditCol  string
}

func (p profile) requiredCols() []string {
	cols := []string{p.dateCol, p.descCol}

	switch p.amountMode {
	case amountSingle:
		cols = append(cols, p.amountCol)
	case amountSplit:
		cols = append(cols, p.debitCol, p.creditCol)
	}

	return cols
}

// profiles are tried in order. More specific layouts come first.
var profiles = []profile{
	{
		name:       "cartão",
		dateCol:    "Data",
		descCol:    "Descrição",
		amountMode: amountSplit,
		debitCol:   "Débito",
		creditCol:  "Crédito",
	},
	{
		name:       "extrato",
		dateCol:    "Data mov.",
		descCol:    "Descrição",
		amountMode: amountSingle,
		amountCol:  "Movimento",
	},
	{
		name:       "conta",
		dateCol:    "Data mov.",
		descCol:    "Descrição",
		amountMode: amountSingle,
		amountCol:  "Montante",
	},
}
