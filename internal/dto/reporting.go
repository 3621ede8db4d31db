package dto

import (
	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/core/domain"
)

// TrialBalanceRowResponse is one account row of the trial balance report.
type TrialBalanceRowResponse struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse is the trial balance report payload.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// LedgerAccountResponse is one account's section of the general ledger.
type LedgerAccountResponse struct {
	Account AccountResponse       `json:"account"`
	Items   []JournalItemResponse `json:"items"`
}

// GeneralLedgerResponse is the general ledger report payload.
type GeneralLedgerResponse struct {
	Accounts []LedgerAccountResponse `json:"accounts"`
}

// ReconciliationResponse reports stored vs derived balance for an account.
type ReconciliationResponse struct {
	AccountID      string          `json:"accountID"`
	StoredBalance  decimal.Decimal `json:"storedBalance"`
	DerivedBalance decimal.Decimal `json:"derivedBalance"`
	Drift          decimal.Decimal `json:"drift"`
}

// ToTrialBalanceResponse converts a domain report to the API payload.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		Rows:        make([]TrialBalanceRowResponse, len(report.Rows)),
		TotalDebit:  report.TotalDebit,
		TotalCredit: report.TotalCredit,
	}
	for i, row := range report.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			Code:   row.Code,
			Name:   row.Name,
			Debit:  row.Debit,
			Credit: row.Credit,
		}
	}
	return resp
}

// ToGeneralLedgerResponse converts a domain ledger report to the API payload.
func ToGeneralLedgerResponse(report *domain.LedgerReport) GeneralLedgerResponse {
	resp := GeneralLedgerResponse{
		Accounts: make([]LedgerAccountResponse, len(report.Accounts)),
	}
	for i := range report.Accounts {
		section := &report.Accounts[i]
		items := make([]JournalItemResponse, len(section.Items))
		for j := range section.Items {
			items[j] = ToJournalItemResponse(&section.Items[j])
		}
		resp.Accounts[i] = LedgerAccountResponse{
			Account: ToAccountResponse(&section.Account),
			Items:   items,
		}
	}
	return resp
}

// ToReconciliationResponse converts a domain reconciliation result.
func ToReconciliationResponse(r *domain.BalanceReconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		AccountID:      r.AccountID,
		StoredBalance:  r.StoredBalance,
		DerivedBalance: r.DerivedBalance,
		Drift:          r.Drift,
	}
}
