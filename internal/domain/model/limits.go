package model

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column limits of the relational store.
const (
	MaxNameLength     = 255
	MaxEmailLength    = 320
	MaxFilenameLength = 512
	// MoneyScale is the number of decimal places kept for amounts.
	MoneyScale = 2
)

// maxMoney is the first amount a NUMERIC(18,2) column cannot hold.
var maxMoney = decimal.New(1, 16)

// exceedsRunes reports whether s is longer than n characters.
func exceedsRunes(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

// clampRunes cuts s to at most n characters.
func clampRunes(s string, n int) string {
	if !exceedsRunes(s, n) {
		return s
	}
	return string([]rune(s)[:n])
}

// hasMoneyScale reports whether d needs no more than MoneyScale decimals.
func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// fitsMoney reports whether d is storable without overflow.
func fitsMoney(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxMoney)
}
