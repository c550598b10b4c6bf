// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package validation

import (
	"math"
	"strings"
	"testing"
)

type searchRequest struct {
	Category string  `json:"category" validate:"required,max=10"`
	Field    string  `json:"field,omitempty" validate:"omitempty,oneof=title creator"`
	Limit    int     `json:"limit" validate:"gte=0,lte=100"`
	Fill     float64 `json:"fill" validate:"finite,gte=0"`
	Pool     int     `validate:"min=1"`
}

func validRequest() searchRequest {
	return searchRequest{Category: "game", Field: "title", Limit: 10, Fill: 0, Pool: 5}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned different instances")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	req := validRequest()
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct(valid) = %v, want nil", err)
	}
}

func TestValidateStruct_SingleField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*searchRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"missing category", func(r *searchRequest) { r.Category = "" }, "category", "required", "category is required"},
		{"long category", func(r *searchRequest) { r.Category = strings.Repeat("x", 11) }, "category", "max", "category must be at most 10 characters"},
		{"bad field", func(r *searchRequest) { r.Field = "genre" }, "field", "oneof", "field must be one of: title creator"},
		{"negative limit", func(r *searchRequest) { r.Limit = -1 }, "limit", "gte", "limit must be greater than or equal to 0"},
		{"limit too big", func(r *searchRequest) { r.Limit = 101 }, "limit", "lte", "limit must be less than or equal to 100"},
		{"NaN fill", func(r *searchRequest) { r.Fill = math.NaN() }, "fill", "finite", "fill must be a finite number"},
		{"Inf fill", func(r *searchRequest) { r.Fill = math.Inf(1) }, "fill", "finite", "fill must be a finite number"},
		{"untagged field", func(r *searchRequest) { r.Pool = 0 }, "Pool", "min", "Pool must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.mutate(&req)

			verr := ValidateStruct(&req)
			if verr == nil {
				t.Fatal("ValidateStruct = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1 (%v)", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}

			apiErr := verr.ToAPIError()
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
			}
			if apiErr.Details["field"] != tt.wantField {
				t.Errorf("Details[field] = %v, want %q", apiErr.Details["field"], tt.wantField)
			}
		})
	}
}

func TestToAPIError_Multiple(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Category = ""
	req.Limit = -5

	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("ValidateStruct = nil, want error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Message != "category is required; limit must be greater than or equal to 0" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(fields))
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q, want %q", verr.Error(), "validation failed")
	}
	if got := verr.ToAPIError().Message; got != "Validation failed" {
		t.Errorf("Message = %q, want %q", got, "Validation failed")
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(42)
	if verr == nil {
		t.Fatal("ValidateStruct(42) = nil, want error")
	}
	if got := verr.Errors()[0].Field(); got != "unknown" {
		t.Errorf("Field() = %q, want unknown", got)
	}
}
