package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openledger/bookkeeper/internal/apperrors"
	"github.com/openledger/bookkeeper/internal/core/domain"
	portsrepo "github.com/openledger/bookkeeper/internal/core/ports/repositories"
	portssvc "github.com/openledger/bookkeeper/internal/core/ports/services"
	"github.com/openledger/bookkeeper/internal/core/services"
	"github.com/openledger/bookkeeper/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) HasItemsForAccount(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalItem, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, entry, items, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalItem), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversingEntryID *string) error {
	args := m.Called(ctx, entryID, status, reversingEntryID)
	return args.Error(0)
}

func (m *MockJournalRepository) DeriveAccountBalance(ctx context.Context, accountID string, accountType domain.AccountType) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, accountType)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.PostingSvcFacade
	cashAccount     domain.Account
	salesAccount    domain.Account
	loanAccount     domain.Account
	rentAccount     domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewPostingService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1001",
		Name:        "Cash",
		AccountType: domain.Asset,
	}
	suite.salesAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		Name:        "Sales",
		AccountType: domain.Revenue,
	}
	suite.loanAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2100",
		Name:        "Bank Loan",
		AccountType: domain.Liability,
	}
	suite.rentAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "5200",
		Name:        "Rent",
		AccountType: domain.Expense,
	}
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	req := dto.PostEntryRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Items: []dto.PostEntryItemRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(500)},
		},
	}

	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.salesAccount.AccountID}).Return(accountsMap, nil).Once()

	var savedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalItem"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal(req.Description, entry.Description)
	suite.Len(entry.Items, 2)
	suite.Equal(entry.EntryID, entry.Items[0].EntryID)

	// Asset debit and revenue credit both raise their balances
	suite.Require().Len(savedChanges, 2)
	suite.True(savedChanges[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(500)))
	suite.True(savedChanges[suite.salesAccount.AccountID].Equal(decimal.NewFromInt(500)))

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Does not balance",
		Items: []dto.PostEntryItemRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(99)},
		},
	}

	entry, err := suite.service.PostEntry(ctx, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	var unbalanced *apperrors.UnbalancedError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(unbalanced.TotalCredit.Equal(decimal.NewFromInt(99)))
	suite.ErrorIs(err, apperrors.ErrValidation)

	// Nothing may touch the store on a validation failure
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEntry_UnknownAccount() {
	ctx := context.Background()
	ghostID := uuid.NewString()
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "References a missing account",
		Items: []dto.PostEntryItemRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(50)},
			{AccountID: ghostID, Credit: decimal.NewFromInt(50)},
		},
	}

	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, ghostID}).Return(accountsMap, nil).Once()

	entry, err := suite.service.PostEntry(ctx, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	var unknown *apperrors.UnknownAccountError
	suite.Require().ErrorAs(err, &unknown)
	suite.Equal(ghostID, unknown.Reference)

	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEntry_NegativeAmount() {
	ctx := context.Background()
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Negative debit",
		Items: []dto.PostEntryItemRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(-10)},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(-10)},
		},
	}

	entry, err := suite.service.PostEntry(ctx, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	var invalidAmount *apperrors.InvalidAmountError
	suite.Require().ErrorAs(err, &invalidAmount)
	suite.Equal(suite.cashAccount.AccountID, invalidAmount.Reference)

	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEntry_DeletionsPruned() {
	ctx := context.Background()
	// The middle line would unbalance the entry; marking it deleted must
	// remove it before validation.
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Entry with a discarded line",
		Items: []dto.PostEntryItemRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(200)},
			{AccountID: suite.loanAccount.AccountID, Debit: decimal.NewFromInt(999)},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(200)},
		},
		Deletions: []int{1},
	}

	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.salesAccount.AccountID}).Return(accountsMap, nil).Once()

	var savedItems []domain.JournalItem
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalItem"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedItems = args.Get(2).([]domain.JournalItem)
		}).
		Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Require().Len(savedItems, 2)
	suite.Equal(suite.cashAccount.AccountID, savedItems[0].AccountID)
	suite.Equal(suite.salesAccount.AccountID, savedItems[1].AccountID)
}

func (suite *PostingServiceTestSuite) TestPostEntry_AllLinesDeleted() {
	ctx := context.Background()
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Everything discarded",
		Items: []dto.PostEntryItemRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(10)},
		},
		Deletions: []int{0},
	}

	entry, err := suite.service.PostEntry(ctx, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestGetEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entryDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	storedEntry := &domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   entryDate,
		Description: "Cash sale",
		Status:      domain.Posted,
	}
	storedItems := []domain.JournalItem{
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(500)},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(storedEntry, nil).Once()
	suite.mockJournalRepo.On("FindItemsByEntryID", ctx, entryID).Return(storedItems, nil).Once()

	entry, err := suite.service.GetEntry(ctx, entryID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Len(entry.Items, 2)
	suite.Equal(entryDate, entry.Items[0].EntryDate)
	suite.Equal("Cash sale", entry.Items[0].EntryDescription)
}

func (suite *PostingServiceTestSuite) TestGetEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.GetEntry(ctx, entryID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestListEntries_DefaultLimit() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntries", ctx, 20, (*string)(nil)).Return([]domain.JournalEntry{}, nil, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Empty(resp.Entries)
	suite.Nil(resp.NextToken)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entryDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	original := &domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   entryDate,
		Description: "Cash sale",
		Status:      domain.Posted,
	}
	originalItems := []domain.JournalItem{
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindItemsByEntryID", ctx, entryID).Return(originalItems, nil).Once()

	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.salesAccount.AccountID}).Return(accountsMap, nil).Once()

	var savedItems []domain.JournalItem
	var savedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalItem"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedItems = args.Get(2).([]domain.JournalItem)
			savedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatusAndLinks", ctx, entryID, domain.Reversed, mock.AnythingOfType("*string")).Return(nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, entryID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal(domain.Posted, reversing.Status)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(entryID, *reversing.OriginalEntryID)

	// Every line has debit and credit swapped
	suite.Require().Len(savedItems, 2)
	suite.True(savedItems[0].Credit.Equal(decimal.NewFromInt(500)))
	suite.True(savedItems[0].Debit.IsZero())
	suite.True(savedItems[1].Debit.Equal(decimal.NewFromInt(500)))
	suite.True(savedItems[1].Credit.IsZero())

	// The reversal pushes both balances back down by the original delta
	suite.True(savedChanges[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(-500)))
	suite.True(savedChanges[suite.salesAccount.AccountID].Equal(decimal.NewFromInt(-500)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entryID := uuid.NewString()
	reversingID := uuid.NewString()

	original := &domain.JournalEntry{
		EntryID:          entryID,
		Status:           domain.Posted,
		ReversingEntryID: &reversingID,
	}
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, entryID)

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_OfReversalRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	originalID := uuid.NewString()

	reversal := &domain.JournalEntry{
		EntryID:         entryID,
		Status:          domain.Posted,
		OriginalEntryID: &originalID,
	}
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(reversal, nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, entryID)

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_NotPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()

	original := &domain.JournalEntry{
		EntryID: entryID,
		Status:  domain.Reversed,
	}
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, entryID)

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestReconcileBalance_NoDrift() {
	ctx := context.Background()
	account := suite.cashAccount
	account.Balance = decimal.NewFromInt(750)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockJournalRepo.On("DeriveAccountBalance", ctx, account.AccountID, domain.Asset).Return(decimal.NewFromInt(750), nil).Once()

	rec, err := suite.service.ReconcileBalance(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rec)
	suite.True(rec.Drift.IsZero())
	suite.True(rec.StoredBalance.Equal(rec.DerivedBalance))
}

func (suite *PostingServiceTestSuite) TestReconcileBalance_DriftDetected() {
	ctx := context.Background()
	account := suite.cashAccount
	account.Balance = decimal.NewFromInt(800)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockJournalRepo.On("DeriveAccountBalance", ctx, account.AccountID, domain.Asset).Return(decimal.NewFromInt(750), nil).Once()

	rec, err := suite.service.ReconcileBalance(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rec)
	suite.True(rec.Drift.Equal(decimal.NewFromInt(50)))
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
