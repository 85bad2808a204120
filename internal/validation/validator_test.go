// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type recommendParams struct {
	MovieTitle       string `query:"movie_title" validate:"notblank,max=20"`
	NRecommendations int    `query:"n_recommendations" validate:"gte=1,lte=100"`
}

type serverSection struct {
	Port int    `koanf:"port" validate:"min=1,max=65535"`
	Host string `koanf:"host" validate:"required"`
}

type rootConfig struct {
	Server serverSection `koanf:"server"`
	Mode   string        `json:"mode" validate:"oneof=hashing http"`
	Hidden string        `json:"-" validate:"required"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input recommendParams
	}{
		{"typical", recommendParams{MovieTitle: "Avatar", NRecommendations: 12}},
		{"bounds", recommendParams{MovieTitle: "A", NRecommendations: 100}},
		{"inner spaces", recommendParams{MovieTitle: " The Matrix ", NRecommendations: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       recommendParams
		wantField   string
		wantTag     string
		wantMessage string
	}{
		{"empty title", recommendParams{MovieTitle: "", NRecommendations: 5}, "movie_title", "notblank", "movie_title must not be blank"},
		{"blank title", recommendParams{MovieTitle: "   \t", NRecommendations: 5}, "movie_title", "notblank", "movie_title must not be blank"},
		{"long title", recommendParams{MovieTitle: strings.Repeat("x", 21), NRecommendations: 5}, "movie_title", "max", "movie_title must be at most 20 characters"},
		{"zero n", recommendParams{MovieTitle: "Avatar", NRecommendations: 0}, "n_recommendations", "gte", "n_recommendations must be greater than or equal to 1"},
		{"huge n", recommendParams{MovieTitle: "Avatar", NRecommendations: 101}, "n_recommendations", "lte", "n_recommendations must be less than or equal to 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("errors = %v, want exactly one", errs)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if errs[0].Error() != tt.wantMessage {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMessage)
			}
		})
	}
}

func TestValidateStruct_NestedPaths(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&rootConfig{
		Server: serverSection{Port: 70000},
		Mode:   "magic",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := map[string]string{}
	for _, e := range err.Errors() {
		got[e.Field()] = e.Tag()
	}
	want := map[string]string{
		"server.port": "max",
		"server.host": "required",
		"mode":        "oneof",
		"Hidden":      "required",
	}
	for field, tag := range want {
		if got[field] != tag {
			t.Errorf("field %s tag = %q, want %q (all: %v)", field, got[field], tag, got)
		}
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&recommendParams{MovieTitle: "", NRecommendations: 1})
	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "movie_title must not be blank" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "movie_title" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&recommendParams{MovieTitle: "", NRecommendations: 0})
	apiErr := err.ToAPIError()

	if !strings.Contains(apiErr.Message, "movie_title: ") || !strings.Contains(apiErr.Message, "n_recommendations: ") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", err.Error())
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if ve.ToAPIError().Message != "Validation failed" {
		t.Errorf("ToAPIError().Message = %q", ve.ToAPIError().Message)
	}
}
