// Package core holds the domain model shared by storage, services and
// transport: currencies, categories, accounts, the transaction ledger,
// income/expense mirrors and savings goals.
package core

import "github.com/shopspring/decimal"

// SumAmounts adds up a slice of amounts. The empty slice sums to zero,
// never to a null value.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Round2 rounds half-up to two decimal places, the precision used for all
// reported totals.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DisplayRound rounds half-up to a whole number for dashboard display.
// Callers needing precision keep the unrounded value.
func DisplayRound(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Convert multiplies a foreign-currency amount by its exchange rate to get
// the equivalent in the base currency.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}
