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

// ValuationHandler handles HTTP requests for valuation endpoints.
type ValuationHandler struct {
	valuationService *service.ValuationService
}

// NewValuationHandler creates a new ValuationHandler with the provided service dependency.
func NewValuationHandler(valuationService *service.ValuationService) *ValuationHandler {
	return &ValuationHandler{
		valuationService: valuationService,
	}
}

// ValuationResponse represents a valuation in API responses.
type ValuationResponse struct {
	ID          string  `json:"id"`
	PortfolioID string  `json:"portfolioId"`
	Date        string  `json:"date"`
	Value       float64 `json:"value"`
}

func toValuationResponse(v model.Valuation) ValuationResponse {
	return ValuationResponse{
		ID:          v.ID,
		PortfolioID: v.PortfolioID,
		Date:        v.Date.Format("2006-01-02"),
		Value:       v.Value.InexactFloat64(),
	}
}

// Valuations handles GET requests to list the stored valuations of a portfolio.
// Same-date corrections are all returned; only calculations collapse them.
//
// Endpoint: GET /api/portfolio/{uuid}/valuation
// Response: 200 OK with array of ValuationResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ValuationHandler) Valuations(w http.ResponseWriter, r *http.Request) {
	valuations, err := h.valuationService.GetValuations(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveValuations)
		return
	}

	result := make([]ValuationResponse, len(valuations))
	for i, v := range valuations {
		result[i] = toValuationResponse(v)
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// CreateValuation handles POST requests to record a valuation on a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/valuation
// Request Body: CreateValuationRequest (date, value)
// Response: 201 Created with ValuationResponse
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if creation fails
func (h *ValuationHandler) CreateValuation(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateValuationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateValuation(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	valuation, err := h.valuationService.CreateValuation(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveValuations)
		return
	}

	response.RespondJSON(w, http.StatusCreated, toValuationResponse(*valuation))
}

// DeleteValuation handles DELETE requests for a single valuation.
//
// Endpoint: DELETE /api/valuation/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the valuation does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *ValuationHandler) DeleteValuation(w http.ResponseWriter, r *http.Request) {
	if err := h.valuationService.DeleteValuation(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveValuations)
		return
	}

	response.RespondNoContent(w)
}
