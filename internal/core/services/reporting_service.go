package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/core/domain"
	portsrepo "github.com/openledger/bookkeeper/internal/core/ports/repositories"
	portssvc "github.com/openledger/bookkeeper/internal/core/ports/services"
	"github.com/openledger/bookkeeper/internal/middleware"
)

// reportingService produces the read-only aggregate views. It never mutates
// state and never recomputes balances; reports reflect the stored values the
// posting engine committed.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists every account ordered by code with its stored balance
// in the debit column for ASSET/EXPENSE accounts and the credit column
// otherwise, plus the column totals. When every committed entry balanced,
// the totals are equal.
func (s *reportingService) TrialBalance(ctx context.Context) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceRows(ctx)
	if err != nil {
		logger.Error("Failed to retrieve trial balance rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	logger.Debug("Trial balance generated",
		slog.Int("row_count", len(rows)),
		slog.String("total_debit", totalDebit.String()),
		slog.String("total_credit", totalCredit.String()))

	return &domain.TrialBalanceReport{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// GeneralLedger returns every account (or only the one matching accountID)
// ordered by code, each with all journal items referencing it. An unknown
// filter id yields an empty report, not an error.
func (s *reportingService) GeneralLedger(ctx context.Context, accountID *string) (*domain.LedgerReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.reportingRepo.GetGeneralLedger(ctx, accountID)
	if err != nil {
		logger.Error("Failed to retrieve general ledger", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve general ledger data: %w", err)
	}

	logger.Debug("General ledger generated", slog.Int("account_count", len(accounts)))
	return &domain.LedgerReport{Accounts: accounts}, nil
}
