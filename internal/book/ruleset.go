package book

import "github.com/ledgerkit-dev/ledgerkit/internal/model"

// RuleSet constrains one transaction kind: which account types the main
// account and the line item accounts may have, whether VAT may be charged,
// and the orientation imposed on every line item. A nil account-type set
// means any type is accepted. New kinds are added as table rows, not code.
type RuleSet struct {
	Kind             model.TransactionKind
	Name             string
	MainAccountTypes []model.AccountType
	LineAccountTypes []model.AccountType
	VatAllowed       bool
	// MainCredited is the orientation the kind imposes: true puts the main
	// account on the credit side, with every line item taking the opposite
	// side of its folio pair.
	MainCredited bool
	// CallerOrientation leaves each line item's credited flag as supplied
	// instead of deriving it from MainCredited (journal entries only).
	CallerOrientation bool
}

// LineCredited returns the orientation imposed on line items.
func (r RuleSet) LineCredited() bool {
	return !r.MainCredited
}

// AllowsMainAccount reports whether t may be the kind's main account type.
func (r RuleSet) AllowsMainAccount(t model.AccountType) bool {
	return allowsType(r.MainAccountTypes, t)
}

// AllowsLineAccount reports whether t may appear on a line item.
func (r RuleSet) AllowsLineAccount(t model.AccountType) bool {
	return allowsType(r.LineAccountTypes, t)
}

func allowsType(set []model.AccountType, t model.AccountType) bool {
	if set == nil {
		return true
	}
	for _, allowed := range set {
		if t == allowed {
			return true
		}
	}
	return false
}

var ruleSets = map[model.TransactionKind]RuleSet{
	model.KindClientInvoice: {
		Kind:             model.KindClientInvoice,
		Name:             "Client Invoice",
		MainAccountTypes: []model.AccountType{model.AccountTypeReceivable},
		LineAccountTypes: []model.AccountType{model.AccountTypeIncome, model.AccountTypeControl},
		VatAllowed:       true,
		MainCredited:     false,
	},
	model.KindCashSale: {
		Kind:             model.KindCashSale,
		Name:             "Cash Sale",
		MainAccountTypes: []model.AccountType{model.AccountTypeIncome},
		LineAccountTypes: []model.AccountType{model.AccountTypeBank, model.AccountTypeControl},
		VatAllowed:       true,
		MainCredited:     true,
	},
	model.KindClientReceipt: {
		Kind:             model.KindClientReceipt,
		Name:             "Client Receipt",
		MainAccountTypes: []model.AccountType{model.AccountTypeReceivable},
		LineAccountTypes: []model.AccountType{model.AccountTypeBank},
		VatAllowed:       false,
		MainCredited:     true,
	},
	model.KindSupplierBill: {
		Kind:             model.KindSupplierBill,
		Name:             "Supplier Bill",
		MainAccountTypes: []model.AccountType{model.AccountTypePayable},
		LineAccountTypes: []model.AccountType{model.AccountTypeExpense, model.AccountTypeInventory, model.AccountTypeControl},
		VatAllowed:       true,
		MainCredited:     true,
	},
	model.KindCashPurchase: {
		Kind:             model.KindCashPurchase,
		Name:             "Cash Purchase",
		MainAccountTypes: []model.AccountType{model.AccountTypeBank},
		LineAccountTypes: []model.AccountType{model.AccountTypeExpense, model.AccountTypeInventory, model.AccountTypeControl},
		VatAllowed:       true,
		MainCredited:     true,
	},
	model.KindSupplierPayment: {
		Kind:             model.KindSupplierPayment,
		Name:             "Supplier Payment",
		MainAccountTypes: []model.AccountType{model.AccountTypePayable},
		LineAccountTypes: []model.AccountType{model.AccountTypeBank},
		VatAllowed:       false,
		MainCredited:     false,
	},
	model.KindContraEntry: {
		Kind:             model.KindContraEntry,
		Name:             "Contra Entry",
		MainAccountTypes: []model.AccountType{model.AccountTypeBank},
		LineAccountTypes: []model.AccountType{model.AccountTypeBank},
		VatAllowed:       false,
		MainCredited:     false,
	},
	model.KindJournalEntry: {
		Kind:              model.KindJournalEntry,
		Name:              "Journal Entry",
		VatAllowed:        true,
		CallerOrientation: true,
	},
}

// Rules returns the rule set for a transaction kind.
func Rules(kind model.TransactionKind) (RuleSet, bool) {
	r, ok := ruleSets[kind]
	return r, ok
}

// Kinds lists every registered transaction kind, in prefix order.
func Kinds() []RuleSet {
	order := []model.TransactionKind{
		model.KindClientInvoice,
		model.KindCashSale,
		model.KindClientReceipt,
		model.KindSupplierBill,
		model.KindCashPurchase,
		model.KindSupplierPayment,
		model.KindContraEntry,
		model.KindJournalEntry,
	}
	out := make([]RuleSet, 0, len(order))
	for _, k := range order {
		out = append(out, ruleSets[k])
	}
	return out
}
