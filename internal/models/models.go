package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for the storage layer.
type AccountType string

// EntryStatus mirrors domain.EntryStatus for the storage layer.
type EntryStatus string

// Account is the database row shape for the accounts relation.
type Account struct {
	AccountID     string          `db:"account_id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}

// JournalEntry is the database row shape for the journal_entries relation.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	EntryDate        time.Time   `db:"entry_date"`
	Description      string      `db:"description"`
	Status           EntryStatus `db:"status"`
	OriginalEntryID  *string     `db:"original_entry_id"`
	ReversingEntryID *string     `db:"reversing_entry_id"`
	CreatedAt        time.Time   `db:"created_at"`
}

// JournalItem is the database row shape for the journal_items relation.
// EntryDate and EntryDescription are only populated by queries that join
// the parent entry.
type JournalItem struct {
	ItemID           string          `db:"item_id"`
	EntryID          string          `db:"entry_id"`
	AccountID        string          `db:"account_id"`
	Debit            decimal.Decimal `db:"debit"`
	Credit           decimal.Decimal `db:"credit"`
	CreatedAt        time.Time       `db:"created_at"`
	EntryDate        time.Time       `db:"-"`
	EntryDescription string          `db:"-"`
}
