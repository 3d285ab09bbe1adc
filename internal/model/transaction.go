package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind discriminates between transaction rule sets. The prefix
// doubles as the transaction-number prefix (e.g. PY00005).
type TransactionKind string

const (
	KindClientInvoice   TransactionKind = "IN"
	KindCashSale        TransactionKind = "CS"
	KindClientReceipt   TransactionKind = "RC"
	KindSupplierBill    TransactionKind = "BL"
	KindCashPurchase    TransactionKind = "CP"
	KindSupplierPayment TransactionKind = "PY"
	KindContraEntry     TransactionKind = "CE"
	KindJournalEntry    TransactionKind = "JN"
)

// Transaction owns a main account, a set of line items and a kind tag.
// It is mutable while in draft; once ledger postings exist it is frozen.
type Transaction struct {
	ID            uuid.UUID
	EntityID      string
	Number        string // assigned on first save, e.g. "PY00005"
	Kind          TransactionKind
	MainAccountID int
	Date          time.Time
	Reference     string
	Narration     string
	LineItems     []*LineItem
}

// NewTransaction creates a draft transaction of the given kind.
func NewTransaction(entityID string, kind TransactionKind, mainAccountID int, date time.Time) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		EntityID:      entityID,
		Kind:          kind,
		MainAccountID: mainAccountID,
		Date:          date,
	}
}

// LineItem returns the owned line item with the given ID, or nil.
func (t *Transaction) LineItem(id uuid.UUID) *LineItem {
	for _, li := range t.LineItems {
		if li.ID == id {
			return li
		}
	}
	return nil
}
