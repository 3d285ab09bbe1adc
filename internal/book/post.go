package book

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Post validates the transaction one final time, expands every line item
// into balanced ledger postings and writes them through the store in a
// single atomic unit. On any rule violation no postings are written; a
// draft that fails posting can be corrected and posted again.
func (s *Service) Post(ctx context.Context, tx *model.Transaction) error {
	rules, ok := Rules(tx.Kind)
	if !ok {
		return fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}

	if len(tx.LineItems) == 0 {
		return &MissingLineItemsError{Number: tx.Number}
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

	postings, err := s.expand(tx)
	if err != nil {
		return err
	}

	if err := s.store.PostLedgers(ctx, tx.ID, postings); err != nil {
		return fmt.Errorf("posting transaction %s: %w", tx.Number, err)
	}
	return nil
}

// expand turns each line item into its folio pair, plus a VAT pair when the
// line item carries VAT. Postings come out in line-item insertion order.
func (s *Service) expand(tx *model.Transaction) ([]model.Ledger, error) {
	now := time.Now().UTC()
	var postings []model.Ledger

	for _, li := range tx.LineItems {
		vat, ok := s.vats.Vat(li.VatCode)
		if !ok {
			return nil, &UnknownVatError{Code: li.VatCode}
		}

		base, vatAmount := SplitVat(li.Net(), vat.Rate, li.VatInclusive)

		lineSide := model.EntryDebit
		if li.Credited {
			lineSide = model.EntryCredit
		}

		postings = append(postings,
			s.posting(tx, li, li.AccountID, lineSide, base, now),
			s.posting(tx, li, tx.MainAccountID, lineSide.Opposite(), base, now),
		)

		if vatAmount.IsPositive() {
			postings = append(postings,
				s.posting(tx, li, vat.AccountID, lineSide, vatAmount, now),
				s.posting(tx, li, tx.MainAccountID, lineSide.Opposite(), vatAmount, now),
			)
		}
	}
	return postings, nil
}

func (s *Service) posting(tx *model.Transaction, li *model.LineItem, accountID int, side model.EntryType, amount decimal.Decimal, postedAt time.Time) model.Ledger {
	return model.Ledger{
		EntityID:      tx.EntityID,
		TransactionID: tx.ID,
		LineItemID:    li.ID,
		PostAccountID: accountID,
		EntryType:     side,
		Amount:        amount,
		Date:          tx.Date,
		PostedAt:      postedAt,
	}
}

// SplitVat returns the base posting amount and the VAT portion for a net
// line amount. Inclusive: VAT is extracted from net, so base+vat == net.
// Exclusive: VAT is added on top, so the folio total is net+vat. The VAT
// portion uses banker's rounding to 2 decimal places; the base absorbs the
// remainder so totals always reproduce exactly.
func SplitVat(net, rate decimal.Decimal, inclusive bool) (base, vat decimal.Decimal) {
	if !rate.IsPositive() {
		return net, decimal.Zero
	}
	if inclusive {
		vat = net.Mul(rate).Div(hundred.Add(rate)).RoundBank(2)
		return net.Sub(vat), vat
	}
	vat = net.Mul(rate).Div(hundred).RoundBank(2)
	return net, vat
}
