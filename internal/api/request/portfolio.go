package request

// CreatePortfolioRequest represents the request body for creating a portfolio.
// IsArchived allows registering a closed portfolio whose history should still be reported.
type CreatePortfolioRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	IsArchived          bool   `json:"isArchived"`
	ExcludeFromOverview bool   `json:"excludeFromOverview"`
}
