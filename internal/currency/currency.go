// Package currency converts and formats base-unit ledger amounts for display.
//
// The ledger stores every amount in one implicit base unit (USD). Conversion
// is a multiplication by a fixed rate applied only at presentation time.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	MXN Code = "MXN"
	COP Code = "COP"
	GBP Code = "GBP"
)

// Currency is a display currency with its fixed rate against the base unit.
type Currency struct {
	Code   Code            `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

var table = []Currency{
	{Code: USD, Symbol: "$", Rate: decimal.NewFromInt(1)},
	{Code: EUR, Symbol: "€", Rate: decimal.RequireFromString("0.92")},
	{Code: MXN, Symbol: "$", Rate: decimal.RequireFromString("17.05")},
	{Code: COP, Symbol: "$", Rate: decimal.NewFromInt(3950)},
	{Code: GBP, Symbol: "£", Rate: decimal.RequireFromString("0.79")},
}

// displayLocale is the locale amounts are rendered in.
var displayLocale = language.Spanish

// All returns the supported currencies in display order.
func All() []Currency {
	out := make([]Currency, len(table))
	copy(out, table)
	return out
}

// IsSupported reports whether code names a currency in the table.
func IsSupported(code string) bool {
	_, ok := find(Code(code))
	return ok
}

// Lookup returns the currency for code, falling back to the base currency
// when the code is unknown.
func Lookup(code string) Currency {
	if c, ok := find(Code(code)); ok {
		return c
	}
	return table[0]
}

func find(code Code) (Currency, bool) {
	for _, c := range table {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Convert multiplies a base-unit amount by the currency's rate.
func (c Currency) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.Rate)
}

// Format converts amount and renders it in the display locale with exactly
// two fraction digits, followed by the currency's symbol ("92,00 €").
func (c Currency) Format(amount decimal.Decimal) string {
	value, _ := c.Convert(amount).Round(2).Float64()
	p := message.NewPrinter(displayLocale)
	return p.Sprintf("%v %s", number.Decimal(value, number.Scale(2)), c.Symbol)
}
