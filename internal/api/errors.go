// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/spatial/internal/temporal"
	"github.com/tomtom215/spatial/internal/validation"
)

// errMalformedBody is returned for request bodies that are not valid JSON.
var errMalformedBody = errors.New("malformed request body")

// statusFor maps store and validation errors onto a status and error code.
// Collisions are checked before the generic audit error they also match.
func statusFor(err error) (int, string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, ErrCodeValidationFailed
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, temporal.ErrAuditCollision):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, temporal.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, temporal.ErrAudit):
		return http.StatusBadRequest, ErrCodeAuditError
	case errors.Is(err, temporal.ErrRepairFailed):
		return http.StatusConflict, ErrCodeRepairFailed
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondStoreError writes err with the status statusFor assigns. Internal
// errors get a generic message; everything else is reported to the client.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	var details interface{}
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		details = verr.Fields()
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	respondError(w, r, status, code, message, details, err)
}
