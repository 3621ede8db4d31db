package mapping

import (
	"github.com/openledger/bookkeeper/internal/core/domain"
	"github.com/openledger/bookkeeper/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		Code:          d.Code,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		Balance:       d.Balance,
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		Balance:       m.Balance,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToModelEntry converts a domain JournalEntry to a model JournalEntry.
// Items are stored separately and are not carried over.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		Status:           models.EntryStatus(d.Status),
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		Status:           domain.EntryStatus(m.Status),
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		CreatedAt:        m.CreatedAt,
	}
}

// ToModelItem converts a domain JournalItem to a model JournalItem.
func ToModelItem(d domain.JournalItem) models.JournalItem {
	return models.JournalItem{
		ItemID:    d.ItemID,
		EntryID:   d.EntryID,
		AccountID: d.AccountID,
		Debit:     d.Debit,
		Credit:    d.Credit,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainItem converts a model JournalItem to a domain JournalItem.
func ToDomainItem(m models.JournalItem) domain.JournalItem {
	return domain.JournalItem{
		ItemID:           m.ItemID,
		EntryID:          m.EntryID,
		AccountID:        m.AccountID,
		Debit:            m.Debit,
		Credit:           m.Credit,
		CreatedAt:        m.CreatedAt,
		EntryDate:        m.EntryDate,
		EntryDescription: m.EntryDescription,
	}
}

// ToDomainItemSlice converts a slice of model JournalItems.
func ToDomainItemSlice(ms []models.JournalItem) []domain.JournalItem {
	ds := make([]domain.JournalItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainItem(m)
	}
	return ds
}
