package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeReceivable AccountType = "receivable"
	AccountTypePayable    AccountType = "payable"
	AccountTypeInventory  AccountType = "inventory"
	AccountTypeIncome     AccountType = "income"
	AccountTypeExpense    AccountType = "expense"
	AccountTypeControl    AccountType = "control"
	AccountTypeEquity     AccountType = "equity"
)

// AccountTypes lists every valid account type, in chart order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeBank,
		AccountTypeReceivable,
		AccountTypePayable,
		AccountTypeInventory,
		AccountTypeIncome,
		AccountTypeExpense,
		AccountTypeControl,
		AccountTypeEquity,
	}
}

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	for _, known := range AccountTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Account represents a row in chart-of-accounts.csv. The posting core reads
// its type tag; ownership stays with the chart-of-accounts service.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	ParentID    int // 0 = top-level
	Description string
}
