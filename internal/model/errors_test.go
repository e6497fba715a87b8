package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	apiErr := NewScriptNotFoundError("id-1")

	wrapped := fmt.Errorf("service failed: %w", apiErr)

	var got *APIError
	if !errors.As(wrapped, &got) {
		t.Fatal("errors.As should unwrap *APIError")
	}
	if got.Code != ErrCodeScriptNotFound {
		t.Errorf("code = %q, want %q", got.Code, ErrCodeScriptNotFound)
	}
}

func TestAPIError_ErrorString_ContainsCode(t *testing.T) {
	err := NewUnauthorizedError()
	if !strings.Contains(err.Error(), ErrCodeUnauthorized) {
		t.Errorf("Error() = %q, should contain the code", err.Error())
	}
}

func TestNewMissingFieldsError_NamesFields(t *testing.T) {
	err := NewMissingFieldsError("title", "key")

	if err.Code != ErrCodeMissingFields {
		t.Errorf("code = %q, want %q", err.Code, ErrCodeMissingFields)
	}
	if !strings.Contains(err.Message, "title") || !strings.Contains(err.Message, "key") {
		t.Errorf("message = %q, should name the missing fields", err.Message)
	}
}

func TestErrorConstructors_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		category string
	}{
		{"unauthorized", NewUnauthorizedError(), "auth"},
		{"invalid request", NewInvalidRequestError(), "validation"},
		{"invalid id", NewInvalidIDError("x"), "validation"},
		{"script not found", NewScriptNotFoundError("x"), "catalog"},
		{"account not found", NewAccountNotFoundError("x"), "catalog"},
		{"internal", NewInternalError("boom"), "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("category = %q, want %q", tt.err.Category, tt.category)
			}
			if tt.err.Action == "" {
				t.Error("action should not be empty")
			}
		})
	}
}
