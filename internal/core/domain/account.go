package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether the account type is one of the five known kinds.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IncreasesWithDebit reports whether a debit moves this account type's
// balance upward. Asset and expense accounts grow with debits; liability,
// equity and revenue accounts grow with credits.
func (t AccountType) IncreasesWithDebit() bool {
	return t == Asset || t == Expense
}

// Account represents a ledger account within the core domain.
// The Balance field is owned exclusively by the posting engine: it is only
// ever written inside the posting commit transaction.
type Account struct {
	AccountID     string          `json:"accountID"`   // Primary key (UUID)
	Code          string          `json:"code"`        // Short unique identifier, e.g. "1001"
	Name          string          `json:"name"`        // User-defined name
	AccountType   AccountType     `json:"accountType"` // Fixed at creation
	Balance       decimal.Decimal `json:"balance"`     // Persisted running balance
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
