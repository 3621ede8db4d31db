package services

import (
	"context"

	"github.com/openledger/bookkeeper/internal/core/domain"
	"github.com/openledger/bookkeeper/internal/dto"
)

// AccountSvcFacade is the account CRUD collaborator surface. It never
// touches balances; those belong to the posting engine.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

// PostingSvcFacade validates candidate journal entries and commits them
// atomically together with the derived account balance updates.
type PostingSvcFacade interface {
	PostEntry(ctx context.Context, req dto.PostEntryRequest) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	ReverseEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ReconcileBalance(ctx context.Context, accountID string) (*domain.BalanceReconciliation, error)
}

// ReportingSvcFacade produces the read-only aggregate reports.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context) (*domain.TrialBalanceReport, error)
	GeneralLedger(ctx context.Context, accountID *string) (*domain.LedgerReport, error)
}
