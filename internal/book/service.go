package book

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerkit-dev/ledgerkit/internal/id"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Store is the durable storage collaborator. Implementations must scope all
// rows to the entity and make PostLedgers all-or-nothing: either every
// posting for the transaction is written or none is, and a transaction that
// already has postings must be rejected with *PostedTransactionError.
type Store interface {
	SaveTransaction(ctx context.Context, tx *model.Transaction) error
	SaveLineItem(ctx context.Context, li *model.LineItem) error
	GetLineItem(ctx context.Context, lineItemID uuid.UUID) (*model.LineItem, error)
	LedgerCount(ctx context.Context, transactionID uuid.UUID) (int, error)
	PostLedgers(ctx context.Context, transactionID uuid.UUID, postings []model.Ledger) error
	NextSequence(ctx context.Context, entityID string, kind model.TransactionKind) (int, error)
}

// AccountResolver looks up chart-of-accounts entries by ID.
type AccountResolver interface {
	Account(id int) (model.Account, bool)
}

// VatResolver looks up VAT rates by code.
type VatResolver interface {
	Vat(code string) (model.Vat, bool)
}

// Service provides the validation and posting core: it decides whether a
// transaction/line-item combination is valid for its kind and materializes
// the ledger when a transaction is posted.
type Service struct {
	store    Store
	accounts AccountResolver
	vats     VatResolver
}

// NewService creates a posting Service.
func NewService(store Store, accounts AccountResolver, vats VatResolver) *Service {
	return &Service{store: store, accounts: accounts, vats: vats}
}

// AddLineItem validates a line item against the transaction kind's rule set
// and attaches it to the draft. The kind's orientation overrides the line
// item's credited flag unless the kind leaves orientation to the caller.
// Nothing is persisted; Save writes the draft.
func (s *Service) AddLineItem(ctx context.Context, tx *model.Transaction, li *model.LineItem) error {
	rules, ok := Rules(tx.Kind)
	if !ok {
		return fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}

	posted, err := s.posted(ctx, tx)
	if err != nil {
		return err
	}
	if posted {
		return &PostedTransactionError{Number: tx.Number}
	}

	if err := s.checkLineItem(rules, li); err != nil {
		return err
	}

	if !rules.CallerOrientation {
		li.Credited = rules.LineCredited()
	}
	li.TransactionID = tx.ID
	tx.LineItems = append(tx.LineItems, li)
	return nil
}

// Save validates the draft's main account and persists the transaction with
// its line items. The first save assigns the transaction number. Saving a
// posted transaction is rejected.
func (s *Service) Save(ctx context.Context, tx *model.Transaction) error {
	rules, ok := Rules(tx.Kind)
	if !ok {
		return fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}

	posted, err := s.posted(ctx, tx)
	if err != nil {
		return err
	}
	if posted {
		return &PostedTransactionError{Number: tx.Number}
	}

	if err := s.checkMainAccount(rules, tx); err != nil {
		return err
	}
	for _, li := range tx.LineItems {
		if err := s.checkLineItem(rules, li); err != nil {
			return err
		}
	}

	if tx.Number == "" {
		seq, err := s.store.NextSequence(ctx, tx.EntityID, tx.Kind)
		if err != nil {
			return fmt.Errorf("allocating transaction number: %w", err)
		}
		tx.Number = id.Format(tx.Kind, seq)
	}

	if err := s.store.SaveTransaction(ctx, tx); err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}
	for _, li := range tx.LineItems {
		if err := s.store.SaveLineItem(ctx, li); err != nil {
			return fmt.Errorf("saving line item: %w", err)
		}
	}
	return nil
}

// SaveLineItem validates and persists a single line item. Once its owning
// transaction has ledger postings, any field change is rejected; re-saving
// an unchanged line item is a no-op.
func (s *Service) SaveLineItem(ctx context.Context, tx *model.Transaction, li *model.LineItem) error {
	if li.Amount.IsNegative() {
		return &NegativeAmountError{Amount: li.Amount.String()}
	}
	if li.Quantity < 0 {
		return &NegativeQuantityError{Quantity: li.Quantity}
	}

	posted, err := s.posted(ctx, tx)
	if err != nil {
		return err
	}
	if posted {
		stored, err := s.store.GetLineItem(ctx, li.ID)
		if err != nil {
			return fmt.Errorf("loading line item: %w", err)
		}
		if stored == nil || dirty(stored, li) {
			return &PostedTransactionError{Number: tx.Number}
		}
		return nil
	}

	if err := s.store.SaveLineItem(ctx, li); err != nil {
		return fmt.Errorf("saving line item: %w", err)
	}
	return nil
}

func (s *Service) posted(ctx context.Context, tx *model.Transaction) (bool, error) {
	n, err := s.store.LedgerCount(ctx, tx.ID)
	if err != nil {
		return false, fmt.Errorf("checking ledger postings: %w", err)
	}
	return n > 0, nil
}

func (s *Service) checkMainAccount(rules RuleSet, tx *model.Transaction) error {
	acct, ok := s.accounts.Account(tx.MainAccountID)
	if !ok {
		return &MainAccountError{Kind: rules.Kind, Expected: rules.MainAccountTypes}
	}
	if !rules.AllowsMainAccount(acct.Type) {
		return &MainAccountError{Kind: rules.Kind, Expected: rules.MainAccountTypes}
	}
	return nil
}

func (s *Service) checkLineItem(rules RuleSet, li *model.LineItem) error {
	if li.Amount.IsNegative() {
		return &NegativeAmountError{Amount: li.Amount.String()}
	}
	if li.Quantity < 0 {
		return &NegativeQuantityError{Quantity: li.Quantity}
	}

	acct, ok := s.accounts.Account(li.AccountID)
	if !ok {
		return &UnknownAccountError{AccountID: li.AccountID}
	}
	if !rules.AllowsLineAccount(acct.Type) {
		return &LineItemAccountError{Kind: rules.Kind, Expected: rules.LineAccountTypes}
	}

	vat, ok := s.vats.Vat(li.VatCode)
	if !ok {
		return &UnknownVatError{Code: li.VatCode}
	}
	if !rules.VatAllowed && vat.Rate.IsPositive() {
		return &VatChargeError{Kind: rules.Kind}
	}
	return nil
}

// dirty reports whether any persisted field differs.
func dirty(stored, li *model.LineItem) bool {
	return stored.AccountID != li.AccountID ||
		stored.VatCode != li.VatCode ||
		!stored.Amount.Equal(li.Amount) ||
		stored.Quantity != li.Quantity ||
		stored.Credited != li.Credited ||
		stored.VatInclusive != li.VatInclusive ||
		stored.Narration != li.Narration
}
