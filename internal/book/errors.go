package book

import (
	"fmt"
	"strings"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// The posting core rejects bad input with typed errors so callers can show
// which rule was broken and what would have been accepted. All of these are
// deterministic validation failures, never transient faults.

// NegativeAmountError rejects a line item with a negative amount.
type NegativeAmountError struct {
	Amount string
}

func (e *NegativeAmountError) Error() string {
	return fmt.Sprintf("line item amount %s cannot be negative", e.Amount)
}

// NegativeQuantityError rejects a line item with a negative quantity.
type NegativeQuantityError struct {
	Quantity int64
}

func (e *NegativeQuantityError) Error() string {
	return fmt.Sprintf("line item quantity %d cannot be negative", e.Quantity)
}

// PostedTransactionError rejects mutation of a transaction, or any of its
// line items, after ledger postings exist for it.
type PostedTransactionError struct {
	Number string
}

func (e *PostedTransactionError) Error() string {
	return fmt.Sprintf("transaction %s has been posted and cannot be changed", e.Number)
}

// MainAccountError rejects a transaction whose main account type is not
// permitted for its kind.
type MainAccountError struct {
	Kind     model.TransactionKind
	Expected []model.AccountType
}

func (e *MainAccountError) Error() string {
	return fmt.Sprintf("%s transaction main account must be of type %s", e.Kind, typeList(e.Expected))
}

// LineItemAccountError rejects a line item whose account type is not
// permitted for the transaction kind.
type LineItemAccountError struct {
	Kind     model.TransactionKind
	Expected []model.AccountType
}

func (e *LineItemAccountError) Error() string {
	return fmt.Sprintf("%s transaction line item accounts must be of type %s", e.Kind, typeList(e.Expected))
}

// VatChargeError rejects a VAT-bearing line item on a kind that forbids VAT.
type VatChargeError struct {
	Kind model.TransactionKind
}

func (e *VatChargeError) Error() string {
	return fmt.Sprintf("%s transactions do not accept VAT charges", e.Kind)
}

// MissingLineItemsError rejects posting a transaction with no line items.
type MissingLineItemsError struct {
	Number string
}

func (e *MissingLineItemsError) Error() string {
	return fmt.Sprintf("transaction %s has no line items to post", e.Number)
}

// UnknownAccountError rejects a reference to an account missing from the chart.
type UnknownAccountError struct {
	AccountID int
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account %d", e.AccountID)
}

// UnknownVatError rejects a reference to an undeclared VAT code.
type UnknownVatError struct {
	Code string
}

func (e *UnknownVatError) Error() string {
	return fmt.Sprintf("unknown VAT code %q", e.Code)
}

func typeList(types []model.AccountType) string {
	if len(types) == 0 {
		return "any"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
