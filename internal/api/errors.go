// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/models"
	"github.com/tomtom215/presto/internal/recommend"
	"github.com/tomtom215/presto/internal/recommend/similarity"
	"github.com/tomtom215/presto/internal/validation"
)

// respondServiceError maps errors from the engine and store to API errors.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr    *validation.RequestValidationError
		sizeErr *similarity.SizeError
	)

	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    models.CodeValidation,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})

	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)

	case errors.Is(err, recommend.ErrProductNotFound):
		respondError(w, r, http.StatusNotFound, models.CodeNotFound, "Product not found", nil)

	case errors.As(err, &sizeErr):
		respondAPIError(w, r, http.StatusUnprocessableEntity, &models.APIError{
			Code:    models.CodeIntractable,
			Message: "Review pool too large; lower reviewers or products",
			Details: map[string]interface{}{
				"users":    sizeErr.Users,
				"products": sizeErr.Products,
				"cells":    sizeErr.Cells,
				"limit":    sizeErr.Limit,
			},
		})

	case errors.Is(err, recommend.ErrIntractableComputation):
		respondError(w, r, http.StatusUnprocessableEntity, models.CodeIntractable, err.Error(), nil)

	case errors.Is(err, database.ErrStoreUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, models.CodeStoreUnavailable,
			"Review store temporarily unavailable", err)

	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, models.CodeTimeout, "Request timed out", err)

	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request cancelled")

	default:
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Internal server error", err)
	}
}
