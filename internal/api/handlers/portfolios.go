package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/api/response"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/service"
	"github.com/ndewijer/portfolio-performance/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PortfoliosResponse represents a portfolio in API responses
type PortfoliosResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	IsArchived          bool   `json:"is_archived"`
	ExcludeFromOverview bool   `json:"exclude_from_overview"`
	CreatedAt           string `json:"created_at"`
}

func toPortfolioResponse(p model.Portfolio) PortfoliosResponse {
	return PortfoliosResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		IsArchived:          p.IsArchived,
		ExcludeFromOverview: p.ExcludeFromOverview,
		CreatedAt:           p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Portfolios handles GET requests to list portfolios.
// With ?active=true only portfolios that are neither archived nor excluded are returned.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of PortfoliosResponse
// Error: 400 Bad Request if the active parameter is not a boolean
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid active parameter", err.Error())
			return
		}
		activeOnly = parsed
	}

	var portfolios []model.Portfolio
	var err error
	if activeOnly {
		portfolios, err = h.portfolioService.GetActivePortfolios(r.Context())
	} else {
		portfolios, err = h.portfolioService.GetAllPortfolios(r.Context())
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	result := make([]PortfoliosResponse, len(portfolios))
	for i, p := range portfolios {
		result[i] = toPortfolioResponse(p)
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// GetPortfolio handles GET requests for a single portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with PortfoliosResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, toPortfolioResponse(portfolio))
}

// CreatePortfolio handles POST requests to create a portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name, description, excludeFromOverview)
// Response: 201 Created with PortfoliosResponse
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, toPortfolioResponse(*portfolio))
}

// DeletePortfolio handles DELETE requests for a portfolio and everything recorded on it.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.DeletePortfolio(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondNoContent(w)
}
