package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the accounting side of a ledger posting.
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// Opposite returns the balancing side.
func (e EntryType) Opposite() EntryType {
	if e == EntryDebit {
		return EntryCredit
	}
	return EntryDebit
}

// Ledger is one immutable posting generated from a line item when its
// transaction is posted. Rows are created exactly once and never updated.
type Ledger struct {
	ID            int64
	EntityID      string
	TransactionID uuid.UUID
	LineItemID    uuid.UUID
	PostAccountID int
	EntryType     EntryType
	Amount        decimal.Decimal
	Date          time.Time
	PostedAt      time.Time
}
