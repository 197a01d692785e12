package ledger

import "fmt"

// Account identifies one balance in the chart of accounts. IDs are
// colon-separated, uppercase, and fully determined by quote currency and
// symbol so identical sessions produce identical charts.
type Account string

// CashAccount is the settlement cash balance in the quote currency.
func CashAccount(quote string) Account {
	return Account("CASH:" + quote)
}

// InventoryAccount carries the cost basis of the open position in a
// symbol, signed with the direction of exposure.
func InventoryAccount(symbol, quote string) Account {
	return Account(fmt.Sprintf("INVENTORY_COST:%s:%s", symbol, quote))
}

// FeesAccount accumulates execution fees paid, as an expense.
func FeesAccount(quote string) Account {
	return Account("FEES_EXPENSE:" + quote)
}

// RealizedPnLAccount accumulates realized trading gains and losses. As an
// income account it is credit-normal: a gain posts a negative amount, so
// reports negate the balance.
func RealizedPnLAccount(quote string) Account {
	return Account("REALIZED_PNL:" + quote)
}

// OpeningEquityAccount is the counter-leg for seeding opening cash.
func OpeningEquityAccount(quote string) Account {
	return Account("EQUITY_OPENING:" + quote)
}
