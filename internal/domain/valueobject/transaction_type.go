package valueobject

import "strings"

// TransactionType is the direction of a bank statement entry.
type TransactionType string

const (
	TransactionCredit  TransactionType = "CREDIT"
	TransactionDebit   TransactionType = "DEBIT"
	TransactionUnknown TransactionType = "UNKNOWN"
)

// ParseTransactionType upper-cases raw and maps the common bank short codes
// (CR, C, DR, D). Any other value is kept upper-cased so that it still shows
// up as a non-credit entry.
func ParseTransactionType(raw string) TransactionType {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "CR", "C":
		return TransactionCredit
	case "DR", "D":
		return TransactionDebit
	case "":
		return TransactionUnknown
	default:
		return TransactionType(s)
	}
}

func (t TransactionType) String() string { return string(t) }
