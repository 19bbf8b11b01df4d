package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrCashFlowNotFound indicates that a cash flow with the given ID does not exist.
	ErrCashFlowNotFound = errors.New("cash flow not found")

	// ErrValuationNotFound indicates that a valuation with the given ID does not exist.
	ErrValuationNotFound = errors.New("valuation not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidRange indicates that the requested reporting window is not supported.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidDate indicates a date parameter that is malformed or lies in the future.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrUnknownFlowType indicates a cash flow type outside the supported set.
	ErrUnknownFlowType = errors.New("unknown cash flow type")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Portfolio operation errors
	ErrFailedToRetrievePortfolios = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrievePortfolio  = errors.New("failed to retrieve portfolio")

	// Cash flow and valuation operation errors
	ErrFailedToRetrieveCashFlows  = errors.New("failed to retrieve cash flows")
	ErrFailedToRetrieveValuations = errors.New("failed to retrieve valuations")

	// Performance operation errors
	ErrFailedToCalculatePerformance = errors.New("failed to calculate performance")
	ErrFailedToCalculateMetrics     = errors.New("failed to calculate metrics")
	ErrFailedToPrepareChart         = errors.New("failed to prepare chart data")
	ErrFailedToRefreshSnapshots     = errors.New("failed to refresh performance snapshots")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
