// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package models

import (
	"time"
)

// APIResponse is the envelope for every JSON endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"query": {...}, "items": [...]},
//	  "metadata": {"timestamp": "2026-05-01T12:00:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "UNKNOWN_TITLE", "message": "title not found in catalog"},
//	  "metadata": {"timestamp": "2026-05-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is the error body of an APIResponse.
//
// Codes used by reelmatch:
//   - VALIDATION_ERROR: query parameters failed validation
//   - UNKNOWN_TITLE: the title is not in the catalog
//   - NOT_FOUND: no such movie id or route
//   - METHOD_NOT_ALLOWED: route exists for another method
//   - SERVICE_UNAVAILABLE: catalog not loaded yet
//   - TOO_MANY_REQUESTS: inbound rate limit hit
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnknownTitle       = "UNKNOWN_TITLE"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternal           = "INTERNAL_ERROR"
)
