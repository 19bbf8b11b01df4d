package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	IsArchived          bool      `json:"isArchived"`
	ExcludeFromOverview bool      `json:"excludeFromOverview"`
	CreatedAt           time.Time `json:"createdAt"`
}

// PortfolioFilter for querying portfolios
type PortfolioFilter struct {
	IncludeArchived bool
	IncludeExcluded bool
}
