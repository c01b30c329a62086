package cgd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/pocket/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "2026-01-30", txs[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", txs[0].Description)
	assert.Equal(t, "588.74", txs[0].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.Equal(t, cgd.Category, txs[0].Category)
	assert.Equal(t, cgd.Account, txs[0].Account)

	assert.Equal(t, "2026-01-09", txs[1].Date)
	assert.Equal(t, "TFI Wise", txs[1].Description)
	assert.Equal(t, "8608.52", txs[1].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
	assert.Empty(t, txs[1].Category)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0000
Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "PAGAMENTO TSU", txs[0].Description)
	assert.Equal(t, "608.13", txs[0].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, "4324.06", txs[1].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;REFUND AMAZON ; ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "2025-12-16", txs[0].Date)
	assert.Equal(t, "PA GONDOMAR         GONDOMAR", txs[0].Description)
	assert.Equal(t, "64.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, "25.00", txs[1].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	txs, err := cgd.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "CAFÉ CENTRAL", txs[0].Description)
}

func TestParser_Rows(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantLen int
		wantErr error
		errText string
	}{
		{
			name:    "DifferentColumnOrder",
			csv:     "Random;MetaData\nMontante;Descrição;Data mov.;Ignored\n-10,00;TEST_ORDER;30-01-2026;XXX\n",
			wantLen: 1,
		},
		{
			name:    "EmptyFile",
			csv:     "",
			wantErr: cgd.ErrUnknownFormat,
		},
		{
			name:    "HeaderOnly",
			csv:     "Data mov.;Data-valor;Descrição;Montante",
			wantLen: 0,
		},
		{
			name:    "MissingDescription",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n",
			errText: "row 2: missing description",
		},
		{
			name:    "SkipsFooterRows",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\nTotais;;;;\n",
			wantLen: 1,
		},
		{
			name:    "SkipsZeroAmounts",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;TEST;0,00\n",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				assert.ErrorContains(t, err, tt.errText)
			default:
				require.NoError(t, err)
				assert.Len(t, txs, tt.wantLen)
			}
		})
	}
}

func TestParser_LargeAmounts(t *testing.T) {
	csv := "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n"

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "1234567.89", txs[0].Amount.StringFixed(2))
}
