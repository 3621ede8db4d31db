package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/apperrors"
	"github.com/openledger/bookkeeper/internal/core/domain"
	portsrepo "github.com/openledger/bookkeeper/internal/core/ports/repositories"
	"github.com/openledger/bookkeeper/internal/models"
	"github.com/openledger/bookkeeper/internal/utils/accounting"
	"github.com/openledger/bookkeeper/internal/utils/mapping"
	"github.com/openledger/bookkeeper/internal/utils/pagination"
)

// PgxJournalRepository persists journal entries and items in PostgreSQL.
type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalRepository creates a new repository for journal data. It needs
// the account repository to lock and update account rows inside the posting
// transaction.
func NewJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveEntry persists the entry header, locks and updates the touched account
// balances, and inserts the items, all within one database transaction.
// Either every write becomes visible together or the transaction rolls back
// and the ledger is untouched.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalItem, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction commits.
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (entry_id, entry_date, description, status, original_entry_id, reversing_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.Status,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewStorageError("insert entry "+m.EntryID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	// Row locks serialize concurrent postings on overlapping accounts.
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.NewStorageError("lock accounts for entry "+m.EntryID, err)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, entry.CreatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO journal_items (item_id, entry_id, account_id, debit, credit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, item := range items {
		mi := mapping.ToModelItem(item)
		batch.Queue(itemQuery,
			mi.ItemID,
			mi.EntryID,
			mi.AccountID,
			mi.Debit,
			mi.Credit,
			mi.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewStorageError("insert items for entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, entry_date, description, status, original_entry_id, reversing_entry_id, created_at
		FROM journal_entries
		WHERE entry_id = $1;
	`
	var m models.JournalEntry
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find entry "+entryID, err)
	}

	entry := mapping.ToDomainEntry(m)
	return &entry, nil
}

// FindItemsByEntryID retrieves all items of an entry in insertion order.
func (r *PgxJournalRepository) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	query := `
		SELECT item_id, entry_id, account_id, debit, credit, created_at
		FROM journal_items
		WHERE entry_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewStorageError("query items for entry "+entryID, err)
	}
	defer rows.Close()

	items := []models.JournalItem{}
	for rows.Next() {
		var m models.JournalItem
		if err := rows.Scan(&m.ItemID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit, &m.CreatedAt); err != nil {
			return nil, apperrors.NewStorageError("scan item row for entry "+entryID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate item rows for entry "+entryID, err)
	}

	return mapping.ToDomainItemSlice(items), nil
}

// ListEntries retrieves a token-paginated list of entries, newest first.
// The cursor is (entry_date, created_at) which is a stable sort key.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row decides whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, entry_date, description, status, original_entry_id, reversing_entry_id, created_at
		FROM journal_entries
	`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}

		cursorClause := `WHERE (entry_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewStorageError("query entries", err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.EntryDate,
			&m.Description,
			&m.Status,
			&m.OriginalEntryID,
			&m.ReversingEntryID,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, apperrors.NewStorageError("scan entry row", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewStorageError("iterate entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainEntry(m)
	}

	return entries, nextTokenVal, nil
}

// UpdateEntryStatusAndLinks updates the status and reversal link of an
// entry. This is the only post-commit write the journal store allows.
func (r *PgxJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversingEntryID *string) error {
	query := `
		UPDATE journal_entries
		SET status = $2, reversing_entry_id = $3
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, status, reversingEntryID)
	if err != nil {
		return apperrors.NewStorageError("update entry status for "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeriveAccountBalance replays the account's complete item history under the
// sign convention. Used by reconciliation only.
func (r *PgxJournalRepository) DeriveAccountBalance(ctx context.Context, accountID string, accountType domain.AccountType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_items
		WHERE account_id = $1;
	`
	var totalDebit, totalCredit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&totalDebit, &totalCredit); err != nil {
		return decimal.Zero, apperrors.NewStorageError("sum items for account "+accountID, err)
	}

	derived, err := accounting.SignedDelta(accountType, totalDebit, totalCredit)
	if err != nil {
		return decimal.Zero, err
	}
	return derived, nil
}
