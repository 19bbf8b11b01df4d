package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/api/response"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/service"
	"github.com/ndewijer/portfolio-performance/internal/validation"
)

// CashFlowHandler handles HTTP requests for cash flow endpoints.
type CashFlowHandler struct {
	cashFlowService *service.CashFlowService
}

// NewCashFlowHandler creates a new CashFlowHandler with the provided service dependency.
func NewCashFlowHandler(cashFlowService *service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{
		cashFlowService: cashFlowService,
	}
}

// CashFlowResponse represents a cash flow in API responses.
// Amount is returned as stored; signs are normalized only during calculation.
type CashFlowResponse struct {
	ID          string  `json:"id"`
	PortfolioID string  `json:"portfolioId"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Notes       string  `json:"notes"`
}

func toCashFlowResponse(cf model.CashFlow) CashFlowResponse {
	return CashFlowResponse{
		ID:          cf.ID,
		PortfolioID: cf.PortfolioID,
		Date:        cf.Date.Format("2006-01-02"),
		Amount:      cf.Amount.InexactFloat64(),
		Type:        string(cf.Type),
		Notes:       cf.Notes,
	}
}

// CashFlows handles GET requests to list the cash flows of a portfolio, oldest first.
//
// Endpoint: GET /api/portfolio/{uuid}/cashflow
// Response: 200 OK with array of CashFlowResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *CashFlowHandler) CashFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := h.cashFlowService.GetCashFlows(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveCashFlows)
		return
	}

	result := make([]CashFlowResponse, len(flows))
	for i, cf := range flows {
		result[i] = toCashFlowResponse(cf)
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// CreateCashFlow handles POST requests to record a cash flow on a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/cashflow
// Request Body: CreateCashFlowRequest (date, amount, type, notes)
// Response: 201 Created with CashFlowResponse
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if creation fails
func (h *CashFlowHandler) CreateCashFlow(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateCashFlowRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateCashFlow(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cashFlow, err := h.cashFlowService.CreateCashFlow(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveCashFlows)
		return
	}

	response.RespondJSON(w, http.StatusCreated, toCashFlowResponse(*cashFlow))
}

// DeleteCashFlow handles DELETE requests for a single cash flow.
//
// Endpoint: DELETE /api/cashflow/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the cash flow does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *CashFlowHandler) DeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	if err := h.cashFlowService.DeleteCashFlow(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveCashFlows)
		return
	}

	response.RespondNoContent(w)
}
