package accounts

import "github.com/ledgerkit-dev/ledgerkit/internal/model"

// DefaultChart returns a starter chart of accounts covering every account
// type the transaction rule sets reference.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: 1010, Name: "Business Checking", Type: model.AccountTypeBank, Description: "Primary checking account"},
		{ID: 1020, Name: "Petty Cash", Type: model.AccountTypeBank, Description: "Cash on hand"},
		{ID: 1210, Name: "Trade Debtors", Type: model.AccountTypeReceivable, Description: "Client receivables"},
		{ID: 1310, Name: "Stock on Hand", Type: model.AccountTypeInventory},
		{ID: 2110, Name: "Trade Creditors", Type: model.AccountTypePayable, Description: "Supplier payables"},
		{ID: 2210, Name: "VAT Control", Type: model.AccountTypeControl, Description: "Output/input VAT clearing"},
		{ID: 3010, Name: "Owner's Equity", Type: model.AccountTypeEquity},
		{ID: 4010, Name: "Sales Revenue", Type: model.AccountTypeIncome},
		{ID: 4020, Name: "Service Revenue", Type: model.AccountTypeIncome},
		{ID: 5010, Name: "Cost of Goods Sold", Type: model.AccountTypeExpense},
		{ID: 5020, Name: "Office Supplies", Type: model.AccountTypeExpense, Description: "Office supplies and expenses"},
		{ID: 5030, Name: "Professional Services", Type: model.AccountTypeExpense, Description: "Legal, accounting, consulting"},
	}
}
