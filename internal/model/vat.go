package model

import "github.com/shopspring/decimal"

// Vat is a tax rate applied to a line item's amount. Rate is a percentage
// (16 means 16%); zero-rated codes are valid everywhere.
type Vat struct {
	Code      string
	Name      string
	Rate      decimal.Decimal
	AccountID int // VAT control account receiving the tax portion
}

// ZeroRated reports whether this rate charges no VAT.
func (v Vat) ZeroRated() bool {
	return v.Rate.IsZero()
}
