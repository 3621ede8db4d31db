package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/core/domain"
)

// PostEntryItemRequest is one candidate line of a journal entry.
type PostEntryItemRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// PostEntryRequest is the payload for posting a journal entry. Deletions
// lists zero-based item positions the caller marked for removal; those
// lines are discarded before any validation runs.
type PostEntryRequest struct {
	Date        time.Time              `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string                 `json:"description" binding:"required,max=200"`
	Items       []PostEntryItemRequest `json:"items" binding:"required,dive"`
	Deletions   []int                  `json:"deletions,omitempty"`
}

// JournalItemResponse is the API representation of a committed line.
type JournalItemResponse struct {
	ItemID           string          `json:"itemID"`
	AccountID        string          `json:"accountID"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	EntryDate        time.Time       `json:"entryDate,omitempty"`
	EntryDescription string          `json:"entryDescription,omitempty"`
}

// JournalEntryResponse is the API representation of a committed entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	Date             time.Time             `json:"date"`
	Description      string                `json:"description"`
	Status           string                `json:"status"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	Items            []JournalItemResponse `json:"items,omitempty"`
}

// ListEntriesParams carries pagination parameters for entry listings.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of journal entries plus the cursor for the
// next page, if any.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalItemResponse converts a domain.JournalItem.
func ToJournalItemResponse(item *domain.JournalItem) JournalItemResponse {
	return JournalItemResponse{
		ItemID:           item.ItemID,
		AccountID:        item.AccountID,
		Debit:            item.Debit,
		Credit:           item.Credit,
		EntryDate:        item.EntryDate,
		EntryDescription: item.EntryDescription,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry with its items.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          entry.EntryID,
		Date:             entry.EntryDate,
		Description:      entry.Description,
		Status:           string(entry.Status),
		OriginalEntryID:  entry.OriginalEntryID,
		ReversingEntryID: entry.ReversingEntryID,
		CreatedAt:        entry.CreatedAt,
	}
	if len(entry.Items) > 0 {
		resp.Items = make([]JournalItemResponse, len(entry.Items))
		for i := range entry.Items {
			resp.Items[i] = ToJournalItemResponse(&entry.Items[i])
		}
	}
	return resp
}
