// Package export writes posted ledger rows to CSV for use outside the
// book database (spreadsheets, external reporting tools).
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Header is the CSV header for ledger exports.
const Header = "transaction,account_id,entry_type,amount,date,posted_at"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colTxn     = 0
	colAcctID  = 1
	colEntry   = 2
	colAmount  = 3
	colDate    = 4
	colPosted  = 5
)

// Row is one exported ledger posting, keyed by the human-facing
// transaction number rather than internal IDs.
type Row struct {
	Transaction string
	AccountID   int
	EntryType   model.EntryType
	Amount      decimal.Decimal
	Date        time.Time
	PostedAt    time.Time
}

// FromLedger converts a ledger posting to an export row.
func FromLedger(number string, l model.Ledger) Row {
	return Row{
		Transaction: number,
		AccountID:   l.PostAccountID,
		EntryType:   l.EntryType,
		Amount:      l.Amount,
		Date:        l.Date,
		PostedAt:    l.PostedAt,
	}
}

// WriteRows writes export rows (including header).
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colTxn] = r.Transaction
	rec[colAcctID] = strconv.Itoa(r.AccountID)
	rec[colEntry] = string(r.EntryType)
	rec[colAmount] = r.Amount.StringFixed(2)
	rec[colDate] = r.Date.Format(dateFormat)
	rec[colPosted] = r.PostedAt.Format(time.RFC3339)
	return rec
}
