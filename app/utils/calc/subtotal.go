package calc

import "github.com/shopspring/decimal"

// LineSubtotal multiplies a unit price by a quantity.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
