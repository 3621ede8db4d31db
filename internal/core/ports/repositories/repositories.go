package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/core/domain"
)

// AccountRepositoryFacade provides access to account records. Balance
// columns are only ever written through the InTx methods, inside the
// posting engine's commit transaction.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
	HasItemsForAccount(ctx context.Context, accountID string) (bool, error)

	// FindAccountsByIDsForUpdate locks the account rows for the duration of
	// the transaction so concurrent postings on overlapping accounts
	// serialize instead of racing the read-modify-write.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// JournalRepositoryFacade provides append/read access to journal entries
// and their items. Committed entries and items are never mutated; the only
// post-commit write is the status/link update performed when a reversing
// entry is appended.
type JournalRepositoryFacade interface {
	// SaveEntry persists the entry header, its items and the derived account
	// balance updates as one atomic transaction. Either everything lands or
	// nothing does.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalItem, balanceChanges map[string]decimal.Decimal) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error)
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversingEntryID *string) error

	// DeriveAccountBalance replays the account's full item history under the
	// sign convention. Reconciliation/repair only; never on the write path.
	DeriveAccountBalance(ctx context.Context, accountID string, accountType domain.AccountType) (decimal.Decimal, error)
}

// ReportingRepositoryFacade serves the read-only aggregate views. No method
// here mutates state.
type ReportingRepositoryFacade interface {
	GetTrialBalanceRows(ctx context.Context) ([]domain.TrialBalanceRow, error)
	GetGeneralLedger(ctx context.Context, accountID *string) ([]domain.LedgerAccount, error)
}
