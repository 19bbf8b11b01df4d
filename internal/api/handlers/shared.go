package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/portfolio-performance/internal/api/response"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
)

// maxBodyBytes limits the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes a JSON request body into T.
// Unknown fields and trailing data are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	if r.Body == nil {
		return req, errors.New("request body is empty")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is empty")
		}
		return req, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if decoder.More() {
		return req, errors.New("request body must contain a single JSON object")
	}

	return req, nil
}

// notFoundErrors are the entity errors answered with 404.
var notFoundErrors = []error{
	apperrors.ErrPortfolioNotFound,
	apperrors.ErrCashFlowNotFound,
	apperrors.ErrValuationNotFound,
}

// respondServiceError maps a service error to an HTTP status.
// Missing entities become 404, unsupported ranges 400, everything else 500 with
// fallback as the message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			response.RespondError(w, http.StatusNotFound, target.Error(), err.Error())
			return
		}
	}

	if errors.Is(err, apperrors.ErrInvalidRange) {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidRange.Error(), err.Error())
		return
	}

	response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
}
