package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/api/response"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/service"
)

// PerformanceHandler handles HTTP requests for portfolio performance endpoints.
// Every read accepts an optional asOf query parameter (YYYY-MM-DD or RFC3339, not in the
// future) and, where a window applies, a range parameter (default ALL).
type PerformanceHandler struct {
	performanceService  *service.PerformanceService
	materializedService *service.MaterializedService
	now                 func() time.Time
}

// NewPerformanceHandler creates a new PerformanceHandler.
func NewPerformanceHandler(
	performanceService *service.PerformanceService,
	materializedService *service.MaterializedService,
) *PerformanceHandler {
	return &PerformanceHandler{
		performanceService:  performanceService,
		materializedService: materializedService,
		now:                 time.Now,
	}
}

// parseQuery reads range and asOf from the request, answering 400 on bad input.
func (h *PerformanceHandler) parseQuery(w http.ResponseWriter, r *http.Request) (*request.PerformanceQuery, bool) {
	query, err := request.ParsePerformanceQuery(
		r.URL.Query().Get("range"),
		r.URL.Query().Get("asOf"),
		h.now(),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return nil, false
	}
	return query, true
}

// Monthly handles GET requests for the monthly performance table, newest month first.
//
// Endpoint: GET /api/portfolio/{uuid}/performance/monthly?range=&asOf=
// Response: 200 OK with array of MonthlyPeriodResponse
// Error: 400 Bad Request if range or asOf is invalid
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if the calculation fails
func (h *PerformanceHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	periods, err := h.performanceService.GetMonthlyPerformance(r.Context(), chi.URLParam(r, "uuid"), query.Range, query.AsOf)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculatePerformance)
		return
	}

	response.RespondJSON(w, http.StatusOK, service.ToMonthlyPeriodResponses(periods))
}

// Metrics handles GET requests for lifetime portfolio metrics.
// The range parameter is not used; metrics always cover the full history up to asOf.
//
// Endpoint: GET /api/portfolio/{uuid}/performance/metrics?asOf=
// Response: 200 OK with PortfolioMetricsResponse
// Error: 400 Bad Request if asOf is invalid
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if the calculation fails
func (h *PerformanceHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	metrics, err := h.performanceService.GetMetrics(r.Context(), chi.URLParam(r, "uuid"), query.AsOf)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculateMetrics)
		return
	}

	response.RespondJSON(w, http.StatusOK, service.ToMetricsResponse(metrics))
}

// Chart handles GET requests for the value-versus-invested series, oldest first.
//
// Endpoint: GET /api/portfolio/{uuid}/performance/chart?range=&asOf=
// Response: 200 OK with array of ChartPointResponse
// Error: 400 Bad Request if range or asOf is invalid
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if preparation fails
func (h *PerformanceHandler) Chart(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	points, err := h.performanceService.GetChartData(r.Context(), chi.URLParam(r, "uuid"), query.Range, query.AsOf)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToPrepareChart)
		return
	}

	response.RespondJSON(w, http.StatusOK, service.ToChartPointResponses(points))
}

// TWR handles GET requests for the time-weighted return of a window.
//
// Endpoint: GET /api/portfolio/{uuid}/performance/twr?range=&asOf=
// Response: 200 OK with TWRResponse; available is false without positive valuations
// Error: 400 Bad Request if range or asOf is invalid
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if the calculation fails
func (h *PerformanceHandler) TWR(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	twr, available, err := h.performanceService.GetTWR(r.Context(), chi.URLParam(r, "uuid"), query.Range, query.AsOf)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculatePerformance)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.TWRResponse{
		Range:     query.Range,
		TWR:       twr.Round(service.RoundingPrecision).InexactFloat64(),
		Available: available,
	})
}

// Refresh handles POST requests that regenerate the stored monthly periods of a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/performance/refresh
// Response: 200 OK with RefreshResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if the refresh fails
func (h *PerformanceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	count, err := h.materializedService.RefreshPortfolio(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshSnapshots)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.RefreshResponse{
		PortfolioID: portfolioID,
		Periods:     count,
	})
}
