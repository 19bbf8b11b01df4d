package validation

import (
	"github.com/ndewijer/portfolio-performance/internal/api/request"
)

// ValidateCreateValuation validates a valuation creation request.
// A zero value is accepted (an emptied portfolio); negative values are not.
func ValidateCreateValuation(req request.CreateValuationRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)

	if !req.Value.Valid {
		errors["value"] = "value is required"
	} else if req.Value.Decimal.IsNegative() {
		errors["value"] = "value cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
