package accounting

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/openledger/bookkeeper/internal/apperrors"
	"github.com/openledger/bookkeeper/internal/core/domain"
)

// SignedDelta returns the change a journal item applies to its account's
// balance under the standard sign convention:
//
//	ASSET/EXPENSE:             balance += debit - credit
//	LIABILITY/EQUITY/REVENUE:  balance += credit - debit
func SignedDelta(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// PruneItems returns the items that survive after discarding the positions
// listed in deletions. Unknown or duplicate positions are ignored.
func PruneItems(items []domain.JournalItem, deletions []int) []domain.JournalItem {
	if len(deletions) == 0 {
		return items
	}
	deleted := make(map[int]struct{}, len(deletions))
	for _, idx := range deletions {
		deleted[idx] = struct{}{}
	}
	kept := make([]domain.JournalItem, 0, len(items))
	for i, item := range items {
		if _, ok := deleted[i]; ok {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// ValidateAmounts checks every line's debit and credit before any balance
// arithmetic runs: both must be non-negative, and a line may not carry zero
// on both sides. Compound lines (debit and credit both non-zero) are
// accepted; only the aggregate totals decide whether the entry balances.
func ValidateAmounts(items []domain.JournalItem) error {
	for i, item := range items {
		ref := item.AccountID
		if ref == "" {
			ref = strconv.Itoa(i)
		}
		if item.Debit.IsNegative() {
			return &apperrors.InvalidAmountError{Reference: ref, Reason: "debit must not be negative"}
		}
		if item.Credit.IsNegative() {
			return &apperrors.InvalidAmountError{Reference: ref, Reason: "credit must not be negative"}
		}
		if item.Debit.IsZero() && item.Credit.IsZero() {
			return &apperrors.InvalidAmountError{Reference: ref, Reason: "debit and credit must not both be zero"}
		}
	}
	return nil
}

// EntryTotals sums debits and credits over the items using exact decimal
// addition.
func EntryTotals(items []domain.JournalItem) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, item := range items {
		totalDebit = totalDebit.Add(item.Debit)
		totalCredit = totalCredit.Add(item.Credit)
	}
	return totalDebit, totalCredit
}

// ValidateEntryBalance enforces the double-entry invariant: the sum of
// debits must exactly equal the sum of credits.
func ValidateEntryBalance(items []domain.JournalItem) error {
	totalDebit, totalCredit := EntryTotals(items)
	if !totalDebit.Equal(totalCredit) {
		return &apperrors.UnbalancedError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}
	return nil
}

// BalanceChanges aggregates the net signed delta per account over the items.
// Accounts missing from accountTypes cause an error; callers must resolve
// every referenced account first.
func BalanceChanges(items []domain.JournalItem, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accountTypes))
	for _, item := range items {
		accountType, ok := accountTypes[item.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not resolved for account %s", item.AccountID)
		}
		delta, err := SignedDelta(accountType, item.Debit, item.Credit)
		if err != nil {
			return nil, fmt.Errorf("computing signed delta for account %s: %w", item.AccountID, err)
		}
		changes[item.AccountID] = changes[item.AccountID].Add(delta)
	}
	return changes, nil
}
