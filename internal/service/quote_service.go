package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// createQuoteMaxAttempts bounds the regenerate-and-retry loop used when two
// concurrent submissions race for the same quote number.
const createQuoteMaxAttempts = 3

// QuoteService implements quote submission and the approval lifecycle.
// Quotes move SUBMITTED -> OWNER_APPROVED -> CUSTOMER_APPROVED, or are
// REJECTED from either of the first two states.
type QuoteService struct {
	quoteRepo           *repository.QuoteRepository
	projectRepo         *repository.ProjectRepository
	lotRepo             *repository.LotRepository
	userService         *UserService
	quoteNumberService  *QuoteNumberService
	notificationService *NotificationService
	logger              *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	projectRepo *repository.ProjectRepository,
	lotRepo *repository.LotRepository,
	userService *UserService,
	quoteNumberService *QuoteNumberService,
	notificationService *NotificationService,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:           quoteRepo,
		projectRepo:         projectRepo,
		lotRepo:             lotRepo,
		userService:         userService,
		quoteNumberService:  quoteNumberService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// CreateQuote validates a quote request end to end and persists a fully
// priced quote. Validation fails fast in a fixed order, and nothing is
// persisted until every rule has passed.
func (s *QuoteService) CreateQuote(ctx context.Context, req *domain.CreateQuoteRequest, contractorActorID string) (*domain.QuoteDTO, error) {
	// 1. The project must exist.
	_, err := s.projectRepo.GetByIdentifier(ctx, req.ProjectIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, req.ProjectIdentifier)
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	// 2. A lot reference is mandatory.
	if strings.TrimSpace(req.LotIdentifier) == "" {
		return nil, fmt.Errorf("%w: lot identifier is required", ErrInvalidInput)
	}

	// 3. The lot must resolve.
	lotID, err := uuid.Parse(strings.TrimSpace(req.LotIdentifier))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid lot identifier format", ErrInvalidInput)
	}
	lot, err := s.lotRepo.GetByLotID(ctx, lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrLotNotFound, lotID)
		}
		return nil, fmt.Errorf("failed to verify lot: %w", err)
	}
	if lot.ProjectIdentifier != req.ProjectIdentifier {
		return nil, fmt.Errorf("%w: lot does not belong to the specified project", ErrInvalidInput)
	}

	// 4. The submitting contractor must resolve (external auth identity
	// first, internal identifier as fallback).
	contractor, err := s.userService.Resolve(ctx, contractorActorID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: contractor not found: %s", ErrInvalidInput, contractorActorID)
		}
		return nil, err
	}

	// 5. The contractor must be in the lot's assigned-users set.
	if !lotHasAssignedUser(lot, contractor.UserIdentifier) {
		return nil, fmt.Errorf("%w: contractor is not assigned to this lot", ErrInvalidInput)
	}

	// 6-7. Line items must be present and individually valid.
	if err := validateLineItems(req.LineItems); err != nil {
		return nil, err
	}

	// 8. Price the quote. Line totals are always derived, never taken from
	// the request.
	lineItems := make([]domain.QuoteLineItem, len(req.LineItems))
	totalAmount := 0.0
	for i, item := range req.LineItems {
		lineTotal := item.Quantity * item.Rate
		lineItems[i] = domain.QuoteLineItem{
			LineItemID:      uuid.New(),
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			LineTotal:       lineTotal,
			DisplayOrder:    item.DisplayOrder,
		}
		totalAmount += lineTotal
	}

	// 9-10. Generate the number and persist. Two concurrent submissions can
	// compute the same number; the unique index rejects the loser and we
	// regenerate.
	for attempt := 1; attempt <= createQuoteMaxAttempts; attempt++ {
		quoteNumber, err := s.quoteNumberService.GenerateNextQuoteNumber(ctx)
		if err != nil {
			return nil, err
		}

		quote := &domain.Quote{
			QuoteNumber:       quoteNumber,
			ProjectIdentifier: req.ProjectIdentifier,
			LotID:             &lot.LotID,
			ContractorID:      contractorActorID,
			Category:          req.Category,
			Status:            domain.QuoteStatusSubmitted,
			TotalAmount:       totalAmount,
			LineItems:         lineItems,
		}

		err = s.quoteRepo.Create(ctx, quote)
		if err == nil {
			s.logger.Info("quote created",
				zap.String("quoteNumber", quote.QuoteNumber),
				zap.String("projectIdentifier", quote.ProjectIdentifier),
				zap.String("contractorId", quote.ContractorID),
				zap.Float64("totalAmount", quote.TotalAmount))
			dto := mapper.ToQuoteDTO(quote)
			return &dto, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("quote number collision, regenerating",
				zap.String("quoteNumber", quoteNumber),
				zap.Int("attempt", attempt))
			continue
		}
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	return nil, fmt.Errorf("%w: could not allocate a unique quote number", ErrConflict)
}

func lotHasAssignedUser(lot *domain.Lot, userIdentifier string) bool {
	for _, u := range lot.AssignedUsers {
		if u.UserIdentifier == userIdentifier {
			return true
		}
	}
	return false
}

func validateLineItems(items []domain.QuoteLineItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be greater than 0 for: %s", ErrInvalidInput, item.ItemDescription)
		}
		if item.Rate < 0 {
			return fmt.Errorf("%w: rate cannot be negative for: %s", ErrInvalidInput, item.ItemDescription)
		}
		if strings.TrimSpace(item.ItemDescription) == "" {
			return fmt.Errorf("%w: item description cannot be empty", ErrInvalidInput)
		}
		if item.DisplayOrder < 0 {
			return fmt.Errorf("%w: display order must be >= 0", ErrInvalidInput)
		}
	}
	return nil
}

// GetQuoteByNumber returns the quote with the given number
func (s *QuoteService) GetQuoteByNumber(ctx context.Context, quoteNumber string) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, quoteNumber)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// GetQuotesByLot returns all quotes submitted against a lot
func (s *QuoteService) GetQuotesByLot(ctx context.Context, lotID uuid.UUID) ([]domain.QuoteDTO, error) {
	quotes, err := s.quoteRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes by lot: %w", err)
	}
	return mapper.ToQuoteDTOs(quotes), nil
}

// GetQuotesByContractor returns all quotes submitted by a contractor
func (s *QuoteService) GetQuotesByContractor(ctx context.Context, contractorID string) ([]domain.QuoteDTO, error) {
	quotes, err := s.quoteRepo.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes by contractor: %w", err)
	}
	return mapper.ToQuoteDTOs(quotes), nil
}

// GetQuotesByProject returns all quotes for a project. The project's
// existence is verified before the quote query runs.
func (s *QuoteService) GetQuotesByProject(ctx context.Context, projectIdentifier string) ([]domain.QuoteDTO, error) {
	_, err := s.projectRepo.GetByIdentifier(ctx, projectIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, projectIdentifier)
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	quotes, err := s.quoteRepo.ListByProject(ctx, projectIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes by project: %w", err)
	}
	return mapper.ToQuoteDTOs(quotes), nil
}

// GetSubmittedQuotes returns all quotes awaiting owner review
func (s *QuoteService) GetSubmittedQuotes(ctx context.Context) ([]domain.QuoteDTO, error) {
	quotes, err := s.quoteRepo.ListByStatus(ctx, domain.QuoteStatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted quotes: %w", err)
	}
	return mapper.ToQuoteDTOs(quotes), nil
}

// GetAllQuotes returns every quote, newest first
func (s *QuoteService) GetAllQuotes(ctx context.Context) ([]domain.QuoteDTO, error) {
	quotes, err := s.quoteRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return mapper.ToQuoteDTOs(quotes), nil
}

// GetCustomerPendingQuotes returns owner-approved quotes awaiting approval
// by the given customer (quotes on lots the customer is assigned to). The
// customer may be named by external auth identity or internal identifier;
// an unknown customer has nothing pending.
func (s *QuoteService) GetCustomerPendingQuotes(ctx context.Context, customerID string) ([]domain.QuoteDTO, error) {
	customer, err := s.userService.Resolve(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []domain.QuoteDTO{}, nil
		}
		return nil, err
	}

	quotes, err := s.quoteRepo.ListOwnerApprovedForCustomer(ctx, customer.UserIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending quotes: %w", err)
	}
	return mapper.ToQuoteDTOs(quotes), nil
}

// ApproveQuote moves a SUBMITTED quote to OWNER_APPROVED and notifies the
// customers on the quote's lot. Notification delivery is best-effort and
// never fails the approval.
func (s *QuoteService) ApproveQuote(ctx context.Context, quoteNumber string) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, quoteNumber)
	if err != nil {
		return nil, err
	}

	if quote.Status != domain.QuoteStatusSubmitted {
		return nil, fmt.Errorf("%w: only submitted quotes can be approved, current status: %s",
			ErrInvalidStatusTransition, quote.Status)
	}

	quote.Status = domain.QuoteStatusOwnerApproved
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to approve quote: %w", err)
	}

	s.logger.Info("quote approved by owner", zap.String("quoteNumber", quote.QuoteNumber))
	s.notifyCustomersOfApprovedQuote(ctx, quote)

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// RejectQuote rejects a SUBMITTED or OWNER_APPROVED quote. A non-blank
// reason is mandatory and stored on the quote.
func (s *QuoteService) RejectQuote(ctx context.Context, quoteNumber, reason string) (*domain.QuoteDTO, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}

	quote, err := s.getQuote(ctx, quoteNumber)
	if err != nil {
		return nil, err
	}

	if quote.Status != domain.QuoteStatusSubmitted && quote.Status != domain.QuoteStatusOwnerApproved {
		return nil, fmt.Errorf("%w: quote cannot be rejected from status: %s",
			ErrInvalidStatusTransition, quote.Status)
	}

	quote.Status = domain.QuoteStatusRejected
	quote.RejectionReason = reason
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to reject quote: %w", err)
	}

	s.logger.Info("quote rejected",
		zap.String("quoteNumber", quote.QuoteNumber),
		zap.String("reason", reason))

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// CustomerApproveQuote moves an OWNER_APPROVED quote to CUSTOMER_APPROVED.
// Only a customer on the quote's lot, or the project's customer, may give
// this approval.
func (s *QuoteService) CustomerApproveQuote(ctx context.Context, quoteNumber, customerID string) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, quoteNumber)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeQuoteCustomer(ctx, quote, customerID); err != nil {
		return nil, err
	}

	if quote.Status != domain.QuoteStatusOwnerApproved {
		return nil, fmt.Errorf("%w: only owner-approved quotes can be customer approved, current status: %s",
			ErrInvalidStatusTransition, quote.Status)
	}

	quote.Status = domain.QuoteStatusCustomerApproved
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to customer-approve quote: %w", err)
	}

	s.logger.Info("quote approved by customer", zap.String("quoteNumber", quote.QuoteNumber))

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// authorizeQuoteCustomer verifies the caller may act as the customer on the
// quote: assigned to the quote's lot, or named as the project's customer.
func (s *QuoteService) authorizeQuoteCustomer(ctx context.Context, quote *domain.Quote, customerID string) error {
	customer, err := s.userService.Resolve(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("%w: caller is not a customer on this quote", ErrPermissionDenied)
		}
		return err
	}

	if quote.LotID != nil {
		lot, err := s.lotRepo.GetByLotID(ctx, *quote.LotID)
		if err == nil && lotHasAssignedUser(lot, customer.UserIdentifier) {
			return nil
		}
	}

	project, err := s.projectRepo.GetByIdentifier(ctx, quote.ProjectIdentifier)
	if err == nil && project.CustomerID != nil && *project.CustomerID == customer.UserIdentifier {
		return nil
	}

	return fmt.Errorf("%w: caller is not a customer on this quote", ErrPermissionDenied)
}

func (s *QuoteService) getQuote(ctx context.Context, quoteNumber string) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByQuoteNumber(ctx, quoteNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, quoteNumber)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

// notifyCustomersOfApprovedQuote creates a notification for each customer
// assigned to the quote's lot, falling back to the project's customer when
// the lot has none.
func (s *QuoteService) notifyCustomersOfApprovedQuote(ctx context.Context, quote *domain.Quote) {
	recipients := s.approvalRecipients(ctx, quote)
	if len(recipients) == 0 {
		s.logger.Warn("no customers to notify for approved quote",
			zap.String("quoteNumber", quote.QuoteNumber))
		return
	}

	for _, recipient := range recipients {
		err := s.notificationService.Create(ctx, recipient,
			"Quote approved",
			fmt.Sprintf("Quote %s has been approved and is awaiting your approval.", quote.QuoteNumber),
			"/customer/quotes/approval",
			domain.NotificationQuoteApproved)
		if err != nil {
			s.logger.Warn("failed to notify customer of approved quote",
				zap.String("quoteNumber", quote.QuoteNumber),
				zap.String("recipient", recipient),
				zap.Error(err))
		}
	}
}

func (s *QuoteService) approvalRecipients(ctx context.Context, quote *domain.Quote) []string {
	var recipients []string
	if quote.LotID != nil {
		lot, err := s.lotRepo.GetByLotID(ctx, *quote.LotID)
		if err != nil {
			s.logger.Warn("failed to load lot for approval notification",
				zap.String("quoteNumber", quote.QuoteNumber),
				zap.Error(err))
		} else {
			for _, u := range lot.AssignedUsers {
				if u.Role == domain.RoleCustomer {
					recipients = append(recipients, u.UserIdentifier)
				}
			}
		}
	}

	if len(recipients) == 0 {
		project, err := s.projectRepo.GetByIdentifier(ctx, quote.ProjectIdentifier)
		if err == nil && project.CustomerID != nil {
			// The project's customer id can go stale; only a resolvable
			// user holding the customer role gets notified.
			customer, err := s.userService.Resolve(ctx, *project.CustomerID)
			if err != nil || customer.Role != domain.RoleCustomer {
				s.logger.Warn("project customer is not a valid notification recipient",
					zap.String("quoteNumber", quote.QuoteNumber),
					zap.String("customerId", *project.CustomerID))
			} else {
				recipients = append(recipients, customer.UserIdentifier)
			}
		}
	}
	return recipients
}
