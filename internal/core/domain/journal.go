package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single, balanced financial event composed of
// journal items. Entries are immutable once committed; corrections are
// modelled as appended reversing entries linked through OriginalEntryID
// and ReversingEntryID.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`     // Primary key (UUID)
	EntryDate        time.Time     `json:"entryDate"`   // Date the event occurred, not commit time
	Description      string        `json:"description"` // Free-text label
	Status           EntryStatus   `json:"status"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on a reversing entry
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on a reversed entry
	CreatedAt        time.Time     `json:"createdAt"`
	Items            []JournalItem `json:"items,omitempty"`
}

// JournalItem is one line within a journal entry, affecting exactly one
// account. Debit and credit are non-negative exact decimals; a line may
// carry both, but never neither.
type JournalItem struct {
	ItemID    string          `json:"itemID"`  // Primary key (UUID)
	EntryID   string          `json:"entryID"` // FK -> JournalEntry
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	CreatedAt time.Time       `json:"createdAt"`

	// Denormalised parent fields, populated on reads that join the entry.
	EntryDate        time.Time `json:"entryDate,omitempty"`
	EntryDescription string    `json:"entryDescription,omitempty"`
}
