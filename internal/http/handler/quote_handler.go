package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/service"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// @Summary Submit a quote
// @Description Submits a new contractor quote for a lot. The contractor identity
// @Description is taken from the authenticated caller, not from the payload.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError "Validation error (missing lot, empty line items, bad quantity/rate)"
// @Failure 404 {object} domain.APIError "Project or lot not found"
// @Failure 409 {object} domain.APIError "Quote number could not be allocated"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.CreateQuote(r.Context(), &req, userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to create quote",
			zap.Error(err),
			zap.String("project_identifier", req.ProjectIdentifier),
			zap.String("contractor", userCtx.Auth0UserID))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotes/"+quote.QuoteNumber)
	respondJSON(w, http.StatusCreated, quote)
}

// @Summary Get quote by number
// @Tags Quotes
// @Produce json
// @Param quoteNumber path string true "Quote number (QT-0000001)"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{quoteNumber} [get]
func (h *QuoteHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	quoteNumber := chi.URLParam(r, "quoteNumber")

	quote, err := h.quoteService.GetQuoteByNumber(r.Context(), quoteNumber)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary List quotes for a lot
// @Tags Quotes
// @Produce json
// @Param lotId path string true "Lot ID"
// @Success 200 {array} domain.QuoteDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots/{lotId}/quotes [get]
func (h *QuoteHandler) ListByLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lot ID: must be a valid UUID")
		return
	}

	quotes, err := h.quoteService.GetQuotesByLot(r.Context(), lotID)
	if err != nil {
		h.logger.Error("failed to list quotes by lot", zap.Error(err), zap.String("lot_id", lotID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary List quotes for a project
// @Tags Quotes
// @Produce json
// @Param identifier path string true "Project identifier"
// @Success 200 {array} domain.QuoteDTO
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/quotes [get]
func (h *QuoteHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	quotes, err := h.quoteService.GetQuotesByProject(r.Context(), identifier)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary List the caller's own quotes
// @Description Returns quotes submitted by the authenticated contractor.
// @Tags Quotes
// @Produce json
// @Success 200 {array} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/mine [get]
func (h *QuoteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	quotes, err := h.quoteService.GetQuotesByContractor(r.Context(), userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to list contractor quotes", zap.Error(err), zap.String("contractor", userCtx.Auth0UserID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary List quotes by contractor
// @Tags Quotes
// @Produce json
// @Param contractorId path string true "Contractor ID"
// @Success 200 {array} domain.QuoteDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/contractor/{contractorId} [get]
func (h *QuoteHandler) ListByContractor(w http.ResponseWriter, r *http.Request) {
	contractorID := chi.URLParam(r, "contractorId")

	quotes, err := h.quoteService.GetQuotesByContractor(r.Context(), contractorID)
	if err != nil {
		h.logger.Error("failed to list quotes by contractor", zap.Error(err), zap.String("contractor", contractorID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary List submitted quotes awaiting owner review
// @Tags Quotes
// @Produce json
// @Success 200 {array} domain.QuoteDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/submitted [get]
func (h *QuoteHandler) ListSubmitted(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.GetSubmittedQuotes(r.Context())
	if err != nil {
		h.logger.Error("failed to list submitted quotes", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary List all quotes
// @Tags Quotes
// @Produce json
// @Success 200 {array} domain.QuoteDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [get]
func (h *QuoteHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.GetAllQuotes(r.Context())
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary List quotes pending the caller's customer approval
// @Description Returns owner-approved quotes on lots the authenticated customer is assigned to.
// @Tags Quotes
// @Produce json
// @Success 200 {array} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/pending-approval [get]
func (h *QuoteHandler) ListPendingCustomerApproval(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	quotes, err := h.quoteService.GetCustomerPendingQuotes(r.Context(), userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to list pending quotes", zap.Error(err), zap.String("customer", userCtx.Auth0UserID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// @Summary Approve a submitted quote
// @Description Owner approval. Moves the quote from SUBMITTED to OWNER_APPROVED
// @Description and notifies the lot's customers.
// @Tags Quotes
// @Produce json
// @Param quoteNumber path string true "Quote number"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError "Quote is not in SUBMITTED status"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{quoteNumber}/approve [post]
func (h *QuoteHandler) Approve(w http.ResponseWriter, r *http.Request) {
	quoteNumber := chi.URLParam(r, "quoteNumber")

	quote, err := h.quoteService.ApproveQuote(r.Context(), quoteNumber)
	if err != nil {
		h.logger.Error("failed to approve quote", zap.Error(err), zap.String("quote_number", quoteNumber))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Reject a quote
// @Description Rejects a quote with a mandatory reason. Allowed from SUBMITTED or OWNER_APPROVED.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quoteNumber path string true "Quote number"
// @Param request body domain.RejectQuoteRequest true "Rejection reason"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError "Missing reason or disallowed status"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{quoteNumber}/reject [post]
func (h *QuoteHandler) Reject(w http.ResponseWriter, r *http.Request) {
	quoteNumber := chi.URLParam(r, "quoteNumber")

	var req domain.RejectQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.RejectQuote(r.Context(), quoteNumber, req.Reason)
	if err != nil {
		h.logger.Error("failed to reject quote", zap.Error(err), zap.String("quote_number", quoteNumber))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Customer-approve a quote
// @Description Final customer approval. Moves the quote from OWNER_APPROVED to CUSTOMER_APPROVED.
// @Description Only a customer on the quote's lot, or the project's customer, may approve.
// @Tags Quotes
// @Produce json
// @Param quoteNumber path string true "Quote number"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError "Quote is not in OWNER_APPROVED status"
// @Failure 403 {object} domain.APIError "Caller is not a customer on this quote"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes/{quoteNumber}/customer-approve [post]
func (h *QuoteHandler) CustomerApprove(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	quoteNumber := chi.URLParam(r, "quoteNumber")

	quote, err := h.quoteService.CustomerApproveQuote(r.Context(), quoteNumber, userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to customer-approve quote", zap.Error(err), zap.String("quote_number", quoteNumber))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}
