package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type quoteServiceFixture struct {
	db          *gorm.DB
	svc         *service.QuoteService
	project     *domain.Project
	lot         *domain.Lot
	contractor  *domain.User
	quoteRepo   *repository.QuoteRepository
	notifRepo   *repository.NotificationRepository
}

func setupQuoteService(t *testing.T) *quoteServiceFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)

	quoteRepo := repository.NewQuoteRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	lotRepo := repository.NewLotRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	log := zap.NewNop()
	userService := service.NewUserService(userRepo, log)
	numberService := service.NewQuoteNumberService(quoteRepo, log)
	notifService := service.NewNotificationService(notifRepo, log)
	svc := service.NewQuoteService(quoteRepo, projectRepo, lotRepo, userService, numberService, notifService, log)

	project := testutil.CreateTestProject(t, db, "PRJ-00001")
	contractor := testutil.CreateTestUser(t, db, "contractor-1", domain.RoleContractor)
	lot := testutil.CreateTestLot(t, db, project.ProjectIdentifier, contractor)

	return &quoteServiceFixture{
		db:         db,
		svc:        svc,
		project:    project,
		lot:        lot,
		contractor: contractor,
		quoteRepo:  quoteRepo,
		notifRepo:  notifRepo,
	}
}

func validQuoteRequest(f *quoteServiceFixture) *domain.CreateQuoteRequest {
	return &domain.CreateQuoteRequest{
		ProjectIdentifier: f.project.ProjectIdentifier,
		LotIdentifier:     f.lot.LotID.String(),
		LineItems: []domain.QuoteLineItemRequest{
			{ItemDescription: "Framing", Quantity: 10, Rate: 150.50, DisplayOrder: 0},
			{ItemDescription: "Roofing", Quantity: 4, Rate: 999.99, DisplayOrder: 1},
		},
	}
}

func TestCreateQuote_Success(t *testing.T) {
	f := setupQuoteService(t)

	quote, err := f.svc.CreateQuote(context.Background(), validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)

	assert.Equal(t, "QT-0000001", quote.QuoteNumber)
	assert.Equal(t, domain.QuoteStatusSubmitted, quote.Status)
	assert.Equal(t, f.contractor.Auth0UserID, quote.ContractorID)
	require.Len(t, quote.LineItems, 2)
	assert.InDelta(t, 1505.0, quote.LineItems[0].LineTotal, 0.001)
	assert.InDelta(t, 3999.96, quote.LineItems[1].LineTotal, 0.001)
	assert.InDelta(t, 5504.96, quote.TotalAmount, 0.001)
}

func TestCreateQuote_SequentialNumbers(t *testing.T) {
	f := setupQuoteService(t)
	ctx := context.Background()

	first, err := f.svc.CreateQuote(ctx, validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)
	second, err := f.svc.CreateQuote(ctx, validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)

	assert.Equal(t, "QT-0000001", first.QuoteNumber)
	assert.Equal(t, "QT-0000002", second.QuoteNumber)
}

func TestCreateQuote_ProjectNotFound(t *testing.T) {
	f := setupQuoteService(t)

	req := validQuoteRequest(f)
	req.ProjectIdentifier = "PRJ-99999"

	_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
	assert.Contains(t, err.Error(), "with identifier: PRJ-99999")
}

func TestCreateQuote_ProjectCheckedBeforeLineItems(t *testing.T) {
	f := setupQuoteService(t)

	// With both an unknown project and empty line items, the project check
	// wins: validation is ordered, not aggregated.
	req := validQuoteRequest(f)
	req.ProjectIdentifier = "PRJ-99999"
	req.LineItems = nil

	_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestCreateQuote_MissingLotIdentifier(t *testing.T) {
	f := setupQuoteService(t)

	for _, lotIdentifier := range []string{"", "   "} {
		req := validQuoteRequest(f)
		req.LotIdentifier = lotIdentifier

		_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		assert.Contains(t, err.Error(), "lot identifier is required")
	}
}

func TestCreateQuote_InvalidLotIdentifierFormat(t *testing.T) {
	f := setupQuoteService(t)

	req := validQuoteRequest(f)
	req.LotIdentifier = "not-a-uuid"

	_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "invalid lot identifier format")
}

func TestCreateQuote_LotNotFound(t *testing.T) {
	f := setupQuoteService(t)

	req := validQuoteRequest(f)
	req.LotIdentifier = uuid.NewString()

	_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrLotNotFound)
}

func TestCreateQuote_LotFromAnotherProject(t *testing.T) {
	f := setupQuoteService(t)
	testutil.CreateTestProject(t, f.db, "PRJ-00002")

	// The lot belongs to PRJ-00001; naming another project must fail even
	// though both the project and the lot exist.
	req := validQuoteRequest(f)
	req.ProjectIdentifier = "PRJ-00002"

	_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "lot does not belong to the specified project")
}

func TestCreateQuote_UnknownContractor(t *testing.T) {
	f := setupQuoteService(t)

	_, err := f.svc.CreateQuote(context.Background(), validQuoteRequest(f), "auth0|nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "contractor not found")
}

func TestCreateQuote_ContractorResolvedByInternalIdentifier(t *testing.T) {
	f := setupQuoteService(t)

	// Resolution falls back to the internal identifier when the value is
	// not a known external auth id.
	quote, err := f.svc.CreateQuote(context.Background(), validQuoteRequest(f), f.contractor.UserIdentifier)
	require.NoError(t, err)
	assert.Equal(t, f.contractor.UserIdentifier, quote.ContractorID)
}

func TestCreateQuote_ContractorNotAssignedToLot(t *testing.T) {
	f := setupQuoteService(t)
	outsider := testutil.CreateTestUser(t, f.db, "contractor-2", domain.RoleContractor)

	_, err := f.svc.CreateQuote(context.Background(), validQuoteRequest(f), outsider.Auth0UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "not assigned to this lot")
}

func TestCreateQuote_LineItemValidation(t *testing.T) {
	tests := []struct {
		name        string
		items       []domain.QuoteLineItemRequest
		wantMessage string
	}{
		{
			name:        "no line items",
			items:       []domain.QuoteLineItemRequest{},
			wantMessage: "at least one line item is required",
		},
		{
			name: "zero quantity",
			items: []domain.QuoteLineItemRequest{
				{ItemDescription: "Framing", Quantity: 0, Rate: 100},
			},
			wantMessage: "quantity must be greater than 0",
		},
		{
			name: "negative quantity",
			items: []domain.QuoteLineItemRequest{
				{ItemDescription: "Framing", Quantity: -1, Rate: 100},
			},
			wantMessage: "quantity must be greater than 0",
		},
		{
			name: "negative rate",
			items: []domain.QuoteLineItemRequest{
				{ItemDescription: "Framing", Quantity: 1, Rate: -0.01},
			},
			wantMessage: "rate cannot be negative",
		},
		{
			name: "blank description",
			items: []domain.QuoteLineItemRequest{
				{ItemDescription: "   ", Quantity: 1, Rate: 100},
			},
			wantMessage: "item description cannot be empty",
		},
		{
			name: "second item invalid",
			items: []domain.QuoteLineItemRequest{
				{ItemDescription: "Framing", Quantity: 1, Rate: 100},
				{ItemDescription: "Roofing", Quantity: 0, Rate: 100},
			},
			wantMessage: "quantity must be greater than 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := setupQuoteService(t)
			req := validQuoteRequest(f)
			req.LineItems = tc.items

			_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.wantMessage)
		})
	}
}

func TestCreateQuote_ZeroRateIsAllowed(t *testing.T) {
	f := setupQuoteService(t)

	req := validQuoteRequest(f)
	req.LineItems = []domain.QuoteLineItemRequest{
		{ItemDescription: "Warranty visit", Quantity: 1, Rate: 0},
	}

	quote, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.NoError(t, err)
	assert.Zero(t, quote.TotalAmount)
}

func TestCreateQuote_NothingPersistedOnValidationFailure(t *testing.T) {
	f := setupQuoteService(t)

	req := validQuoteRequest(f)
	req.LineItems[1].Quantity = -5

	_, err := f.svc.CreateQuote(context.Background(), req, f.contractor.Auth0UserID)
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&domain.Quote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetQuoteByNumber(t *testing.T) {
	f := setupQuoteService(t)
	ctx := context.Background()

	created, err := f.svc.CreateQuote(ctx, validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)

	fetched, err := f.svc.GetQuoteByNumber(ctx, created.QuoteNumber)
	require.NoError(t, err)
	assert.Equal(t, created.QuoteNumber, fetched.QuoteNumber)
	assert.Len(t, fetched.LineItems, 2)

	_, err = f.svc.GetQuoteByNumber(ctx, "QT-7777777")
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}

func TestGetQuotesByLot(t *testing.T) {
	f := setupQuoteService(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuote(ctx, validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)

	quotes, err := f.svc.GetQuotesByLot(ctx, f.lot.LotID)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)

	// Unknown lot yields an empty list, not an error
	quotes, err = f.svc.GetQuotesByLot(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestGetQuotesByProject_ChecksProjectFirst(t *testing.T) {
	f := setupQuoteService(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuote(ctx, validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)

	quotes, err := f.svc.GetQuotesByProject(ctx, f.project.ProjectIdentifier)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)

	_, err = f.svc.GetQuotesByProject(ctx, "PRJ-99999")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestGetQuotesByContractor(t *testing.T) {
	f := setupQuoteService(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuote(ctx, validQuoteRequest(f), f.contractor.Auth0UserID)
	require.NoError(t, err)

	quotes, err := f.svc.GetQuotesByContractor(ctx, f.contractor.Auth0UserID)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)

	quotes, err = f.svc.GetQuotesByContractor(ctx, "auth0|someone-else")
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
