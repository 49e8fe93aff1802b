package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

var _ port.StatementParser = (*CSVParser)(nil)

// Standard column names after normalisation.
const (
	ColumnDate           = "date"
	ColumnAmount         = "amount"
	ColumnType           = "type"
	ColumnNarration      = "narration"
	ColumnRefNo          = "ref_no"
	ColumnClosingBalance = "closingbalance"
	ColumnWithdrawal     = "withdrawalamt"
	ColumnDeposit        = "depositamt"
)

// requiredColumns must be present once synonyms and the withdrawal/deposit
// merge have been applied.
var requiredColumns = []string{ColumnDate, ColumnAmount, ColumnType, ColumnNarration}

// synonyms maps each standard column to the header names banks use for it,
// in priority order. The first one present wins.
var synonyms = []struct {
	standard string
	aliases  []string
}{
	{ColumnDate, []string{"date", "txn_date", "transaction_date", "valuedt"}},
	{ColumnAmount, []string{"amount", "txn_amount", "transaction_amount"}},
	{ColumnType, []string{"type", "txn_type", "dr_cr", "drcr"}},
	{ColumnNarration, []string{"narration", "description", "particulars", "remarks"}},
	{ColumnRefNo, []string{"chq/ref.no."}},
}

// CSVParser reads bank statement exports with loosely standardised headers.
type CSVParser struct{}

// NewCSVParser creates a parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse implements port.StatementParser. Every failure is returned as a
// *model.StatementFormatError.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &model.StatementFormatError{Reason: "No columns to parse from file"}
	}
	if err != nil {
		return nil, &model.StatementFormatError{Reason: "invalid CSV", Err: err}
	}

	cols := normaliseHeader(header)
	_, hasAmount := cols[ColumnAmount]
	_, hasWithdrawal := cols[ColumnWithdrawal]
	_, hasDeposit := cols[ColumnDeposit]
	merge := !hasAmount && hasWithdrawal && hasDeposit

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; ok {
			continue
		}
		if merge && (c == ColumnAmount || c == ColumnType) {
			continue
		}
		missing = append(missing, c)
	}
	if len(missing) > 0 {
		return nil, &model.StatementFormatError{
			Reason: fmt.Sprintf("CSV missing columns: [%s]. Found: [%s]",
				strings.Join(missing, " "), strings.Join(foundColumns(header, cols), " ")),
		}
	}

	var txns []model.Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.StatementFormatError{Reason: "invalid CSV", Err: err}
		}
		if isBlank(record) {
			continue
		}

		txn, err := toTransaction(record, cols, merge)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, &model.StatementFormatError{Reason: fmt.Sprintf("line %d", line), Err: err}
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// normaliseHeader trims and lower-cases every header and renames synonyms
// to their standard name. The returned map holds column indexes.
func normaliseHeader(header []string) map[string]int {
	raw := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := raw[name]; !dup {
			raw[name] = i
		}
	}

	cols := make(map[string]int, len(raw))
	for name, i := range raw {
		cols[name] = i
	}
	for _, s := range synonyms {
		for _, alias := range s.aliases {
			if i, ok := raw[alias]; ok {
				if alias != s.standard {
					delete(cols, alias)
				}
				cols[s.standard] = i
				break
			}
		}
	}
	return cols
}

// foundColumns lists the normalised column names in file order.
func foundColumns(header []string, cols map[string]int) []string {
	byIndex := make([]string, len(header))
	for name, i := range cols {
		byIndex[i] = name
	}
	found := make([]string, 0, len(header))
	for _, name := range byIndex {
		if name != "" {
			found = append(found, name)
		}
	}
	return found
}

func toTransaction(record []string, cols map[string]int, merge bool) (model.Transaction, error) {
	txn := model.Transaction{
		Date:      field(record, cols, ColumnDate),
		Narration: field(record, cols, ColumnNarration),
	}

	if merge {
		deposit := parseAmountOrZero(field(record, cols, ColumnDeposit))
		withdrawal := parseAmountOrZero(field(record, cols, ColumnWithdrawal))
		switch {
		case deposit > 0:
			txn.Amount, txn.Type = deposit, valueobject.TransactionCredit
		case withdrawal > 0:
			txn.Amount, txn.Type = withdrawal, valueobject.TransactionDebit
		default:
			txn.Amount, txn.Type = 0, valueobject.TransactionUnknown
		}
	} else {
		raw := field(record, cols, ColumnAmount)
		amount, err := parseAmount(raw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("could not convert amount %q to float", raw)
		}
		txn.Amount = amount
		txn.Type = valueobject.ParseTransactionType(field(record, cols, ColumnType))
	}

	if _, ok := cols[ColumnClosingBalance]; ok {
		if balance, err := parseAmount(field(record, cols, ColumnClosingBalance)); err == nil {
			txn.ClosingBalance = &balance
		}
	}
	return txn, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseAmount accepts thousands separators ("1,20,000.50"). NaN and the
// infinities are rejected: they would poison every aggregate downstream.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite amount %q", s)
	}
	return v, nil
}

func parseAmountOrZero(s string) float64 {
	v, err := parseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
