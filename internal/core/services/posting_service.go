package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openledger/bookkeeper/internal/apperrors"
	"github.com/openledger/bookkeeper/internal/core/domain"
	portsrepo "github.com/openledger/bookkeeper/internal/core/ports/repositories"
	portssvc "github.com/openledger/bookkeeper/internal/core/ports/services"
	"github.com/openledger/bookkeeper/internal/dto"
	"github.com/openledger/bookkeeper/internal/middleware"
	"github.com/openledger/bookkeeper/internal/utils/accounting"
)

var (
	ErrNoItems       = errors.New("entry must have at least one item after discarding removed lines")
	ErrNotPosted     = errors.New("entry must be in POSTED status to be reversed")
	ErrIsReversal    = errors.New("cannot reverse an entry that is itself a reversal")
	ErrAlreadyUndone = errors.New("entry has already been reversed")
)

// postingService validates candidate journal entries and commits them
// atomically with the derived account balance updates. It is the only
// writer of account balances.
type postingService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewPostingService creates a new posting service.
func NewPostingService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.PostingSvcFacade {
	return &postingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostEntry validates the candidate and, if it balances, commits the entry,
// its items and the account balance updates as one atomic unit. On any
// validation failure nothing is persisted.
func (s *postingService) PostEntry(ctx context.Context, req dto.PostEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	candidates := make([]domain.JournalItem, len(req.Items))
	for i, itemReq := range req.Items {
		candidates[i] = domain.JournalItem{
			AccountID: itemReq.AccountID,
			Debit:     itemReq.Debit,
			Credit:    itemReq.Credit,
		}
	}

	items := accounting.PruneItems(candidates, req.Deletions)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoItems)
	}

	// Amounts are checked before any balance arithmetic runs.
	if err := accounting.ValidateAmounts(items); err != nil {
		return nil, err
	}
	if err := accounting.ValidateEntryBalance(items); err != nil {
		var unbalanced *apperrors.UnbalancedError
		if errors.As(err, &unbalanced) {
			logger.Warn("Rejected unbalanced entry",
				slog.String("total_debit", unbalanced.TotalDebit.String()),
				slog.String("total_credit", unbalanced.TotalCredit.String()))
		}
		return nil, err
	}

	accountTypes, err := s.resolveAccountTypes(ctx, items)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := accounting.BalanceChanges(items, accountTypes)
	if err != nil {
		logger.Error("Failed to compute balance changes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	for i := range items {
		items[i].ItemID = uuid.NewString()
		items[i].EntryID = entryID
		items[i].CreatedAt = now
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.Date,
		Description: req.Description,
		Status:      domain.Posted,
		CreatedAt:   now,
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, items, balanceChanges); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.Int("item_count", len(items)))
	entry.Items = items
	return &entry, nil
}

// resolveAccountTypes fetches every referenced account and returns its type,
// failing with UnknownAccountError on the first missing reference.
func (s *postingService) resolveAccountTypes(ctx context.Context, items []domain.JournalItem) (map[string]domain.AccountType, error) {
	accountIDs := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.AccountID]; ok {
			continue
		}
		seen[item.AccountID] = struct{}{}
		accountIDs = append(accountIDs, item.AccountID)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(accountIDs))
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, &apperrors.UnknownAccountError{Reference: id}
		}
		accountTypes[id] = acc.AccountType
	}
	return accountTypes, nil
}

// GetEntry retrieves an entry header together with its items.
func (s *postingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	items, err := s.journalRepo.FindItemsByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch items for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve items for entry %s: %w", entryID, err)
	}

	for i := range items {
		items[i].EntryDate = entry.EntryDate
		items[i].EntryDescription = entry.Description
	}
	entry.Items = items
	return entry, nil
}

// ListEntries retrieves a token-paginated page of journal entries,
// newest first.
func (s *postingService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{
		Entries:   responses,
		NextToken: nextToken,
	}, nil
}

// ReverseEntry appends a new entry that mirrors the original with debit and
// credit swapped on every line, marks the original REVERSED, and links the
// two. The original's items are never touched; the reversal restores every
// affected balance through the same posting commit path.
func (s *postingService) ReverseEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrNotPosted)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrIsReversal)
	}
	if original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAlreadyUndone)
	}

	originalItems, err := s.journalRepo.FindItemsByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch items for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve items for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversedItems := make([]domain.JournalItem, len(originalItems))
	for i, orig := range originalItems {
		reversedItems[i] = domain.JournalItem{
			ItemID:    uuid.NewString(),
			EntryID:   reversingID,
			AccountID: orig.AccountID,
			Debit:     orig.Credit,
			Credit:    orig.Debit,
			CreatedAt: now,
		}
	}

	accountTypes, err := s.resolveAccountTypes(ctx, reversedItems)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := accounting.BalanceChanges(reversedItems, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating reversal balance changes: %w", err)
	}

	reversingEntry := domain.JournalEntry{
		EntryID:         reversingID,
		EntryDate:       original.EntryDate,
		Description:     fmt.Sprintf("Reversal of: %s", original.Description),
		Status:          domain.Posted,
		OriginalEntryID: &original.EntryID,
		CreatedAt:       now,
	}

	if err := s.journalRepo.SaveEntry(ctx, reversingEntry, reversedItems, balanceChanges); err != nil {
		logger.Error("Failed to save reversing entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, original.EntryID, domain.Reversed, &reversingID); err != nil {
		logger.Error("Failed to mark original entry reversed",
			slog.String("error", err.Error()),
			slog.String("entry_id", entryID),
			slog.String("reversing_entry_id", reversingID))
		return nil, fmt.Errorf("failed to update original entry status: %w", err)
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversingID))
	reversingEntry.Items = reversedItems
	return &reversingEntry, nil
}

// ReconcileBalance recomputes an account's balance from its full item
// history and reports it next to the stored balance. Repair and test
// tooling only; the normal write path never calls this.
func (s *postingService) ReconcileBalance(ctx context.Context, accountID string) (*domain.BalanceReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	derived, err := s.journalRepo.DeriveAccountBalance(ctx, accountID, account.AccountType)
	if err != nil {
		logger.Error("Failed to derive balance from items", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to derive balance for account %s: %w", accountID, err)
	}

	drift := account.Balance.Sub(derived)
	if !drift.IsZero() {
		logger.Warn("Balance drift detected",
			slog.String("account_id", accountID),
			slog.String("stored", account.Balance.String()),
			slog.String("derived", derived.String()))
	}

	return &domain.BalanceReconciliation{
		AccountID:      accountID,
		StoredBalance:  account.Balance,
		DerivedBalance: derived,
		Drift:          drift,
	}, nil
}
