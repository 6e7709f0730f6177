// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// String renders the amount with two decimals, prefixed by the currency symbol when known.
func (m Money) String() string {
	if sym, ok := currencySymbols[m.Currency]; ok {
		return sym + m.Amount.StringFixed(2)
	}
	return m.Amount.StringFixed(2) + " " + m.Currency
}

var currencySymbols = map[string]string{
	"ZAR": "R",
	"USD": "$",
	"EUR": "€",
}
