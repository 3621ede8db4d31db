package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single account's line in a trial balance report.
// Exactly one of Debit/Credit carries the stored balance, chosen by the
// account type's normal side.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account's balance split into debit/credit
// columns. For a ledger whose every committed entry balanced, TotalDebit
// equals TotalCredit.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// LedgerAccount is one account's section of a general ledger report: the
// account plus every journal item that references it, each item carrying
// its parent entry's date and description.
type LedgerAccount struct {
	Account Account       `json:"account"`
	Items   []JournalItem `json:"items"`
}

// LedgerReport is the general ledger view, ordered by account code.
type LedgerReport struct {
	Accounts []LedgerAccount `json:"accounts"`
}

// BalanceReconciliation compares an account's stored balance against the
// balance derived by replaying its item history. Drift is stored minus
// derived; anything non-zero indicates corruption.
type BalanceReconciliation struct {
	AccountID      string          `json:"accountID"`
	StoredBalance  decimal.Decimal `json:"storedBalance"`
	DerivedBalance decimal.Decimal `json:"derivedBalance"`
	Drift          decimal.Decimal `json:"drift"`
}
