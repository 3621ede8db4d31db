package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/apperrors"
	"github.com/openledger/bookkeeper/internal/core/domain"
	portsrepo "github.com/openledger/bookkeeper/internal/core/ports/repositories"
	"github.com/openledger/bookkeeper/internal/models"
	"github.com/openledger/bookkeeper/internal/utils/mapping"
)

// reportingRepository serves the read-only report queries.
type reportingRepository struct {
	BaseRepository
}

// NewReportingRepository creates a new reporting repository.
func NewReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*reportingRepository)(nil)

// GetTrialBalanceRows reads every account ordered by code and splits its
// stored balance into the debit or credit column by the account type's
// normal side. Balances are not recomputed from item history here; the
// report reflects exactly what the posting engine committed.
func (r *reportingRepository) GetTrialBalanceRows(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT account_id, code, name, account_type, balance
		FROM accounts
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError("query trial balance rows", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		var balance decimal.Decimal

		if err := rows.Scan(&row.AccountID, &row.Code, &row.Name, &accountType, &balance); err != nil {
			return nil, apperrors.NewStorageError("scan trial balance row", err)
		}

		row.AccountType = domain.AccountType(accountType)
		if row.AccountType.IncreasesWithDebit() {
			row.Debit = balance
		} else {
			row.Credit = balance
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate trial balance rows", err)
	}

	return result, nil
}

// GetGeneralLedger returns accounts ordered by code, each with every journal
// item referencing it; items carry the parent entry's date and description
// and are ordered chronologically within each account. With a filter, only
// the matching account is returned; an unknown id yields an empty slice.
func (r *reportingRepository) GetGeneralLedger(ctx context.Context, accountID *string) ([]domain.LedgerAccount, error) {
	accountQuery := `SELECT ` + accountColumns + ` FROM accounts`
	args := []interface{}{}
	if accountID != nil {
		accountQuery += ` WHERE account_id = $1`
		args = append(args, *accountID)
	}
	accountQuery += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, accountQuery, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("query ledger accounts", err)
	}
	defer rows.Close()

	sections := []domain.LedgerAccount{}
	sectionIndex := map[string]int{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("scan ledger account row", err)
		}
		sectionIndex[m.AccountID] = len(sections)
		sections = append(sections, domain.LedgerAccount{
			Account: mapping.ToDomainAccount(m),
			Items:   []domain.JournalItem{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate ledger account rows", err)
	}
	if len(sections) == 0 {
		return sections, nil
	}

	itemQuery := `
		SELECT i.item_id, i.entry_id, i.account_id, i.debit, i.credit, i.created_at,
		       e.entry_date, e.description
		FROM journal_items i
		JOIN journal_entries e ON i.entry_id = e.entry_id
	`
	itemArgs := []interface{}{}
	if accountID != nil {
		itemQuery += ` WHERE i.account_id = $1`
		itemArgs = append(itemArgs, *accountID)
	}
	itemQuery += ` ORDER BY e.entry_date, e.created_at, i.item_id;`

	itemRows, err := r.Pool.Query(ctx, itemQuery, itemArgs...)
	if err != nil {
		return nil, apperrors.NewStorageError("query ledger items", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var m models.JournalItem
		if err := itemRows.Scan(
			&m.ItemID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.CreatedAt,
			&m.EntryDate,
			&m.EntryDescription,
		); err != nil {
			return nil, apperrors.NewStorageError("scan ledger item row", err)
		}

		idx, ok := sectionIndex[m.AccountID]
		if !ok {
			continue
		}
		sections[idx].Items = append(sections[idx].Items, mapping.ToDomainItem(m))
	}
	if err := itemRows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate ledger item rows", err)
	}

	return sections, nil
}
