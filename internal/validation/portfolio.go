package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ndewijer/portfolio-performance/internal/api/request"
)

const (
	maxPortfolioNameLength        = 100
	maxPortfolioDescriptionLength = 500
)

// ValidateCreatePortfolio validates a portfolio creation request.
// Lengths are counted in characters, not bytes.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		errors["name"] = "name is required"
	case utf8.RuneCountInString(name) > maxPortfolioNameLength:
		errors["name"] = fmt.Sprintf("name must be %d characters or less", maxPortfolioNameLength)
	case strings.ContainsFunc(name, unicode.IsControl):
		errors["name"] = "name must not contain control characters"
	}

	if utf8.RuneCountInString(req.Description) > maxPortfolioDescriptionLength {
		errors["description"] = fmt.Sprintf("description must be %d characters or less", maxPortfolioDescriptionLength)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
