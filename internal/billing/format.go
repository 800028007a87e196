package billing

import "github.com/shopspring/decimal"

const DefaultCurrency = "£"

// Money renders an amount with two decimal places, rounding half away from zero.
func Money(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
