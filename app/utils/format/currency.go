package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var money = accounting.Accounting{
	Symbol:    "$",
	Precision: 2,
	Thousand:  ".",
	Decimal:   ",",
	Format:    "%s %v",
}

// Price renders an amount in Argentine peso notation, e.g. "$ 1.234,50".
func Price(amount decimal.Decimal) string {
	return money.FormatMoney(amount)
}
