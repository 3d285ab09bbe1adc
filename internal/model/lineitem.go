package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one monetary component of a transaction, tied to its own
// account and VAT code. A line item belongs to exactly one transaction.
type LineItem struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     int
	VatCode       string
	Amount        decimal.Decimal
	Quantity      int64
	Credited      bool // true = credit the line item's account
	VatInclusive  bool // true = VAT is extracted from the amount, not added on top
	Narration     string
}

// NewLineItem creates a draft line item with the default quantity of 1 and
// debit orientation. The owning transaction's kind may override Credited.
func NewLineItem(accountID int, vatCode string, amount decimal.Decimal) *LineItem {
	return &LineItem{
		ID:        uuid.New(),
		AccountID: accountID,
		VatCode:   vatCode,
		Amount:    amount,
		Quantity:  1,
	}
}

// Net returns amount * quantity, before any VAT split.
func (l *LineItem) Net() decimal.Decimal {
	return l.Amount.Mul(decimal.NewFromInt(l.Quantity))
}

// String describes the line item for diagnostics.
func (l *LineItem) String() string {
	return fmt.Sprintf("account %d for %s", l.AccountID, l.Net().StringFixed(2))
}
