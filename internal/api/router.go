package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-performance/internal/api/handlers"
	custommiddleware "github.com/ndewijer/portfolio-performance/internal/api/middleware"
	"github.com/ndewijer/portfolio-performance/internal/config"
	"github.com/ndewijer/portfolio-performance/internal/service"
)

// Services bundles the services exposed over HTTP.
type Services struct {
	System       *service.SystemService
	Portfolio    *service.PortfolioService
	CashFlow     *service.CashFlowService
	Valuation    *service.ValuationService
	Performance  *service.PerformanceService
	Materialized *service.MaterializedService
}

// NewRouter creates and configures the HTTP router.
// Read endpoints are public; every write goes through APIKeyMiddleware.
func NewRouter(svc Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	cashFlowHandler := handlers.NewCashFlowHandler(svc.CashFlow)
	valuationHandler := handlers.NewValuationHandler(svc.Valuation)
	performanceHandler := handlers.NewPerformanceHandler(svc.Performance, svc.Materialized)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.With(custommiddleware.APIKeyMiddleware).Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)

				r.Get("/", portfolioHandler.GetPortfolio)
				r.With(custommiddleware.APIKeyMiddleware).Delete("/", portfolioHandler.DeletePortfolio)

				r.Get("/cashflow", cashFlowHandler.CashFlows)
				r.With(custommiddleware.APIKeyMiddleware).Post("/cashflow", cashFlowHandler.CreateCashFlow)

				r.Get("/valuation", valuationHandler.Valuations)
				r.With(custommiddleware.APIKeyMiddleware).Post("/valuation", valuationHandler.CreateValuation)

				r.Route("/performance", func(r chi.Router) {
					r.Get("/monthly", performanceHandler.Monthly)
					r.Get("/metrics", performanceHandler.Metrics)
					r.Get("/chart", performanceHandler.Chart)
					r.Get("/twr", performanceHandler.TWR)
					r.With(custommiddleware.APIKeyMiddleware).Post("/refresh", performanceHandler.Refresh)
				})
			})
		})

		r.Route("/cashflow/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.With(custommiddleware.APIKeyMiddleware).Delete("/", cashFlowHandler.DeleteCashFlow)
		})

		r.Route("/valuation/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.With(custommiddleware.APIKeyMiddleware).Delete("/", valuationHandler.DeleteValuation)
		})
	})

	return r
}
