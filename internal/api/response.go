// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spatial/internal/logging"
)

// APIResponse is the response envelope of every endpoint.
type APIResponse struct {
	// Success indicates if the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (nil on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (nil on success)
	Error *APIError `json:"error,omitempty"`

	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	// RequestID correlates the error with server logs
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta carries response metadata.
type APIMeta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`

	// Count is the number of items of a list response
	Count *int `json:"count,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeAuditError         = "AUDIT_ERROR"
	ErrCodeRepairFailed       = "REPAIR_FAILED"
)

func newMeta(ctx context.Context) *APIMeta {
	return &APIMeta{
		Timestamp: time.Now().UTC(),
		RequestID: logging.CorrelationIDFromContext(ctx),
	}
}

// respondJSON writes response with the given status.
func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData writes a successful response. Slices get a count.
func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}, count int) {
	meta := newMeta(r.Context())
	if count >= 0 {
		meta.Count = &count
	}
	respondJSON(w, status, &APIResponse{Success: true, Data: data, Meta: meta})
}

// respondError writes an error response. err is logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}, err error) {
	ctx := r.Context()
	if err != nil {
		event := logging.Ctx(ctx).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(ctx).Error()
		}
		event.Err(err).
			Str("code", code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("API Error")
	}

	meta := newMeta(ctx)
	respondJSON(w, status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: meta.RequestID,
		},
		Meta: meta,
	})
}
