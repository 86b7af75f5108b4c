package books

import "github.com/shopspring/decimal"

// JournalRow is one line of the expense journal.
type JournalRow struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Total   bool
}

// ExpenseJournal returns the double-entry view of an expense: the paid-through
// account is credited, the expense account is debited, and a totals row closes
// the table.
func ExpenseJournal(exp *Expense) []JournalRow {
	if exp == nil {
		return nil
	}
	paidThrough := exp.PaidThrough
	if paidThrough == "" {
		paidThrough = "Undeposited Funds"
	}
	return []JournalRow{
		{Account: paidThrough, Debit: decimal.Zero, Credit: exp.Amount},
		{Account: "Input IGST", Debit: decimal.Zero, Credit: decimal.Zero},
		{Account: exp.ExpenseAccount, Debit: exp.Amount, Credit: decimal.Zero},
		{Debit: exp.Amount, Credit: exp.Amount, Total: true},
	}
}
