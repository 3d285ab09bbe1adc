// Package store implements the durable storage collaborator over an
// embedded sqlite database. All rows are scoped to one entity and posting
// is all-or-nothing: ledger rows for a transaction are written in a single
// database transaction guarded against double posting.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/ledgerkit-dev/ledgerkit/internal/book"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

const dateFormat = "2006-01-02"

// Sqlite is a book.Store backed by a sqlite file.
type Sqlite struct {
	db       *sql.DB
	entityID string
}

// Open opens (creating if needed) the book database at path, scoped to the
// given entity.
func Open(path, entityID string) (*Sqlite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening book database: %w", err)
	}
	// sqlite handles one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Sqlite{db: db, entityID: entityID}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Sqlite) Close() error {
	return s.db.Close()
}

func (s *Sqlite) migrate() error {
	for _, stmt := range migrations() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// migrations returns the schema statements, one SQL statement each.
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id              TEXT PRIMARY KEY,
			entity_id       TEXT NOT NULL,
			number          TEXT NOT NULL,
			kind            TEXT NOT NULL,
			main_account_id INTEGER NOT NULL,
			date            TEXT NOT NULL,
			reference       TEXT NOT NULL DEFAULT '',
			narration       TEXT NOT NULL DEFAULT '',
			deleted_at      TEXT,
			UNIQUE(entity_id, number)
		)`,
		`CREATE TABLE IF NOT EXISTS line_items (
			id             TEXT PRIMARY KEY,
			entity_id      TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			account_id     INTEGER NOT NULL,
			vat_code       TEXT NOT NULL,
			amount         TEXT NOT NULL,
			quantity       INTEGER NOT NULL DEFAULT 1,
			credited       INTEGER NOT NULL DEFAULT 0,
			vat_inclusive  INTEGER NOT NULL DEFAULT 0,
			narration      TEXT NOT NULL DEFAULT '',
			deleted_at     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ledgers (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id       TEXT NOT NULL,
			transaction_id  TEXT NOT NULL,
			line_item_id    TEXT NOT NULL,
			post_account_id INTEGER NOT NULL,
			entry_type      TEXT NOT NULL,
			amount          TEXT NOT NULL,
			date            TEXT NOT NULL,
			posted_at       TEXT NOT NULL,
			deleted_at      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_line_items_txn ON line_items(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledgers_txn ON ledgers(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledgers_account ON ledgers(entity_id, post_account_id)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			entity_id TEXT NOT NULL,
			kind      TEXT NOT NULL,
			next_seq  INTEGER NOT NULL,
			PRIMARY KEY (entity_id, kind)
		)`,
	}
}

// SaveTransaction inserts or updates a draft transaction header.
func (s *Sqlite) SaveTransaction(ctx context.Context, tx *model.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, entity_id, number, kind, main_account_id, date, reference, narration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			kind = excluded.kind,
			main_account_id = excluded.main_account_id,
			date = excluded.date,
			reference = excluded.reference,
			narration = excluded.narration`,
		tx.ID.String(), s.entityID, tx.Number, string(tx.Kind), tx.MainAccountID,
		tx.Date.Format(dateFormat), tx.Reference, tx.Narration)
	if err != nil {
		return fmt.Errorf("saving transaction %s: %w", tx.Number, err)
	}
	return nil
}

// SaveLineItem inserts or updates a line item row.
func (s *Sqlite) SaveLineItem(ctx context.Context, li *model.LineItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO line_items (id, entity_id, transaction_id, account_id, vat_code, amount, quantity, credited, vat_inclusive, narration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			vat_code = excluded.vat_code,
			amount = excluded.amount,
			quantity = excluded.quantity,
			credited = excluded.credited,
			vat_inclusive = excluded.vat_inclusive,
			narration = excluded.narration`,
		li.ID.String(), s.entityID, li.TransactionID.String(), li.AccountID, li.VatCode,
		li.Amount.String(), li.Quantity, boolInt(li.Credited), boolInt(li.VatInclusive), li.Narration)
	if err != nil {
		return fmt.Errorf("saving line item: %w", err)
	}
	return nil
}

// GetLineItem returns a line item by ID, or nil if absent.
func (s *Sqlite) GetLineItem(ctx context.Context, lineItemID uuid.UUID) (*model.LineItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, transaction_id, account_id, vat_code, amount, quantity, credited, vat_inclusive, narration
		FROM line_items
		WHERE id = ? AND entity_id = ? AND deleted_at IS NULL`,
		lineItemID.String(), s.entityID)

	li, err := scanLineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading line item: %w", err)
	}
	return li, nil
}

// GetTransaction returns a transaction with its line items in insertion
// order, or nil if absent.
func (s *Sqlite) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, entity_id, number, kind, main_account_id, date, reference, narration
		FROM transactions
		WHERE id = ? AND entity_id = ? AND deleted_at IS NULL`,
		transactionID.String(), s.entityID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading transaction: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, account_id, vat_code, amount, quantity, credited, vat_inclusive, narration
		FROM line_items
		WHERE transaction_id = ? AND entity_id = ? AND deleted_at IS NULL
		ORDER BY rowid`,
		transactionID.String(), s.entityID)
	if err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("loading line items: %w", err)
		}
		tx.LineItems = append(tx.LineItems, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}
	return tx, nil
}

// GetTransactionByNumber resolves a human-facing transaction number.
func (s *Sqlite) GetTransactionByNumber(ctx context.Context, number string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id FROM transactions
		WHERE number = ? AND entity_id = ? AND deleted_at IS NULL`,
		number, s.entityID)

	var idStr string
	if err := row.Scan(&idStr); errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("loading transaction %s: %w", number, err)
	}

	txID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction id %q: %w", idStr, err)
	}
	return s.GetTransaction(ctx, txID)
}

// GetTransactionByNumberAny resolves a transaction number including
// recycled rows, so a soft-deleted transaction can be restored.
func (s *Sqlite) GetTransactionByNumberAny(ctx context.Context, number string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, entity_id, number, kind, main_account_id, date, reference, narration
		FROM transactions
		WHERE number = ? AND entity_id = ?`,
		number, s.entityID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading transaction %s: %w", number, err)
	}
	return tx, nil
}

// Transactions returns all live transaction headers in creation order.
// Line items are not loaded; use GetTransaction for the full draft.
func (s *Sqlite) Transactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, number, kind, main_account_id, date, reference, narration
		FROM transactions
		WHERE entity_id = ? AND deleted_at IS NULL
		ORDER BY rowid`,
		s.entityID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}
		out = append(out, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return out, nil
}

// LedgerCount returns the number of live ledger postings for a transaction.
func (s *Sqlite) LedgerCount(ctx context.Context, transactionID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ledgers
		WHERE transaction_id = ? AND entity_id = ? AND deleted_at IS NULL`,
		transactionID.String(), s.entityID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting ledger postings: %w", err)
	}
	return n, nil
}

// PostLedgers writes all postings for a transaction atomically. The
// already-posted guard is re-checked inside the database transaction so
// concurrent posts serialize and the loser gets PostedTransactionError.
func (s *Sqlite) PostLedgers(ctx context.Context, transactionID uuid.UUID, postings []model.Ledger) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning posting: %w", err)
	}
	defer dbTx.Rollback()

	var n int
	err = dbTx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ledgers
		WHERE transaction_id = ? AND entity_id = ? AND deleted_at IS NULL`,
		transactionID.String(), s.entityID).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking posting guard: %w", err)
	}
	if n > 0 {
		var number string
		_ = dbTx.QueryRowContext(ctx,
			`SELECT number FROM transactions WHERE id = ? AND entity_id = ?`,
			transactionID.String(), s.entityID).Scan(&number)
		return &book.PostedTransactionError{Number: number}
	}

	for _, p := range postings {
		_, err := dbTx.ExecContext(ctx, `
			INSERT INTO ledgers (entity_id, transaction_id, line_item_id, post_account_id, entry_type, amount, date, posted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.entityID, p.TransactionID.String(), p.LineItemID.String(), p.PostAccountID,
			string(p.EntryType), p.Amount.String(), p.Date.Format(dateFormat),
			p.PostedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("writing ledger posting: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing posting: %w", err)
	}
	return nil
}

// LedgersByTransaction returns a transaction's postings in posting order.
func (s *Sqlite) LedgersByTransaction(ctx context.Context, transactionID uuid.UUID) ([]model.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, transaction_id, line_item_id, post_account_id, entry_type, amount, date, posted_at
		FROM ledgers
		WHERE transaction_id = ? AND entity_id = ? AND deleted_at IS NULL
		ORDER BY id`,
		transactionID.String(), s.entityID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger postings: %w", err)
	}
	defer rows.Close()
	return scanLedgers(rows)
}

// NextSequence allocates the next transaction number sequence for a kind.
func (s *Sqlite) NextSequence(ctx context.Context, entityID string, kind model.TransactionKind) (int, error) {
	var seq int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sequences (entity_id, kind, next_seq) VALUES (?, ?, 1)
		ON CONFLICT(entity_id, kind) DO UPDATE SET next_seq = next_seq + 1
		RETURNING next_seq`,
		entityID, string(kind)).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("allocating sequence for %s: %w", kind, err)
	}
	return seq, nil
}

// Recycle soft-deletes a transaction with its line items and ledger
// postings. Posted rows leave the books only through this path.
func (s *Sqlite) Recycle(ctx context.Context, transactionID uuid.UUID) error {
	return s.setDeleted(ctx, transactionID, time.Now().UTC().Format(time.RFC3339))
}

// Restore undoes a Recycle.
func (s *Sqlite) Restore(ctx context.Context, transactionID uuid.UUID) error {
	return s.setDeleted(ctx, transactionID, "")
}

func (s *Sqlite) setDeleted(ctx context.Context, transactionID uuid.UUID, deletedAt string) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning recycle: %w", err)
	}
	defer dbTx.Rollback()

	var value any
	if deletedAt != "" {
		value = deletedAt
	}
	for _, table := range []string{"transactions", "line_items", "ledgers"} {
		column := "id"
		if table != "transactions" {
			column = "transaction_id"
		}
		_, err := dbTx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET deleted_at = ? WHERE %s = ? AND entity_id = ?", table, column),
			value, transactionID.String(), s.entityID)
		if err != nil {
			return fmt.Errorf("updating %s: %w", table, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing recycle: %w", err)
	}
	return nil
}

// AccountBalance holds the debit/credit totals posted to one account.
type AccountBalance struct {
	AccountID int
	Debits    decimal.Decimal
	Credits   decimal.Decimal
}

// Balances sums live ledger postings per account.
func (s *Sqlite) Balances(ctx context.Context) ([]AccountBalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_account_id, entry_type, amount
		FROM ledgers
		WHERE entity_id = ? AND deleted_at IS NULL
		ORDER BY post_account_id, id`,
		s.entityID)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]*AccountBalance)
	var order []int
	for rows.Next() {
		var accountID int
		var entryType, amountStr string
		if err := rows.Scan(&accountID, &entryType, &amountStr); err != nil {
			return nil, fmt.Errorf("scanning balance row: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amountStr, err)
		}

		b, ok := totals[accountID]
		if !ok {
			b = &AccountBalance{AccountID: accountID}
			totals[accountID] = b
			order = append(order, accountID)
		}
		if model.EntryType(entryType) == model.EntryDebit {
			b.Debits = b.Debits.Add(amount)
		} else {
			b.Credits = b.Credits.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}

	out := make([]AccountBalance, 0, len(order))
	for _, id := range order {
		out = append(out, *totals[id])
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var tx model.Transaction
	var idStr, kind, dateStr string
	if err := row.Scan(&idStr, &tx.EntityID, &tx.Number, &kind, &tx.MainAccountID, &dateStr, &tx.Reference, &tx.Narration); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction id %q: %w", idStr, err)
	}
	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}

	tx.ID = id
	tx.Kind = model.TransactionKind(kind)
	tx.Date = date
	return &tx, nil
}

func scanLineItem(row scanner) (*model.LineItem, error) {
	var li model.LineItem
	var idStr, txIDStr, amountStr string
	var credited, vatInclusive int
	if err := row.Scan(&idStr, &txIDStr, &li.AccountID, &li.VatCode, &amountStr, &li.Quantity, &credited, &vatInclusive, &li.Narration); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing line item id %q: %w", idStr, err)
	}
	txID, err := uuid.Parse(txIDStr)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction id %q: %w", txIDStr, err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}

	li.ID = id
	li.TransactionID = txID
	li.Amount = amount
	li.Credited = credited != 0
	li.VatInclusive = vatInclusive != 0
	return &li, nil
}

func scanLedgers(rows *sql.Rows) ([]model.Ledger, error) {
	var out []model.Ledger
	for rows.Next() {
		var l model.Ledger
		var txIDStr, liIDStr, entryType, amountStr, dateStr, postedStr string
		if err := rows.Scan(&l.ID, &l.EntityID, &txIDStr, &liIDStr, &l.PostAccountID, &entryType, &amountStr, &dateStr, &postedStr); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}

		txID, err := uuid.Parse(txIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing transaction id %q: %w", txIDStr, err)
		}
		liID, err := uuid.Parse(liIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing line item id %q: %w", liIDStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amountStr, err)
		}
		date, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
		}
		postedAt, err := time.Parse(time.RFC3339, postedStr)
		if err != nil {
			return nil, fmt.Errorf("parsing posted_at %q: %w", postedStr, err)
		}

		l.TransactionID = txID
		l.LineItemID = liID
		l.EntryType = model.EntryType(entryType)
		l.Amount = amount
		l.Date = date
		l.PostedAt = postedAt
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger rows: %w", err)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
