package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

// ValidateCreateCashFlow validates a cash flow creation request.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD (or RFC3339) format
//   - amount: Must be present and non-zero; the sign is normalized by type during calculation
//   - type: Must be one of the supported flow types
//
// Optional fields:
//   - notes / description: At most 500 characters
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateCashFlow(req request.CreateCashFlowRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)

	if !req.Amount.Valid {
		errors["amount"] = "amount is required"
	} else if req.Amount.Decimal.IsZero() {
		errors["amount"] = "amount must be non-zero"
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !model.ValidFlowTypes[model.FlowType(req.Type)] {
		errors["type"] = fmt.Sprintf("%s: %s", apperrors.ErrUnknownFlowType, req.Type)
	}

	if len(req.Notes) > 500 {
		errors["notes"] = "notes must be 500 characters or less"
	}
	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
