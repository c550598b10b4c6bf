// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeIntractable      = "INTRACTABLE_COMPUTATION"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeTimeout          = "TIMEOUT"
	CodeInternal         = "INTERNAL_ERROR"
)

// APIResponse wraps every HTTP response body.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"product": {...}, "recommendations": [...]},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "query_time_ms": 45
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "category is required",
//	    "details": {"field": "category", "tag": "required"}
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable code plus a human-readable message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Driver    string `json:"driver"`
	Breaker   string `json:"breaker,omitempty"`
	Products  int64  `json:"products"`
	Reviews   int64  `json:"reviews"`
	Uptime    string `json:"uptime"`
	CheckedAt string `json:"checked_at"`
}

// SearchResponse lists the products matching a search.
type SearchResponse struct {
	Category string      `json:"category"`
	Term     string      `json:"term"`
	Count    int         `json:"count"`
	Products interface{} `json:"products"`
}

// ProductReviewsResponse is a product with its quality-ranked reviews.
type ProductReviewsResponse struct {
	Product interface{} `json:"product"`
	Count   int         `json:"count"`
	Reviews interface{} `json:"reviews"`
}
