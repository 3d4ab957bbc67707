package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeValidation, http.StatusUnprocessableEntity},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorTypeExternal, http.StatusBadGateway},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorType("unknown"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := ErrorTypeToHTTPStatus(tc.errorType); got != tc.want {
			t.Errorf("ErrorTypeToHTTPStatus(%s) = %d, want %d", tc.errorType, got, tc.want)
		}
	}
}

func TestNewErrorCarriesRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), "requestID", "req-123") //nolint:staticcheck

	err := NewError(ctx, LayerDomain, ErrorTypeNotFound, "missing", nil, "test-code")
	if err.GetRequestID() != "req-123" {
		t.Errorf("request id = %q, want req-123", err.GetRequestID())
	}
	if err.GetCode() != "test-code" {
		t.Errorf("code = %q, want test-code", err.GetCode())
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := NewError(context.Background(), LayerRepository, ErrorTypeDatabaseError, "query failed", inner, "test-code")

	if !errors.Is(err, inner) {
		t.Error("wrapped error should be reachable via errors.Is")
	}
}

func TestIsErrorType(t *testing.T) {
	err := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "bad input", nil, "test-code")

	if !IsErrorType(err, ErrorTypeValidation) {
		t.Error("IsErrorType should match the error's type")
	}
	if IsErrorType(err, ErrorTypeNotFound) {
		t.Error("IsErrorType should not match a different type")
	}
	if IsErrorType(errors.New("plain"), ErrorTypeValidation) {
		t.Error("IsErrorType should reject non-platform errors")
	}
	if IsErrorType(nil, ErrorTypeValidation) {
		t.Error("IsErrorType should reject nil")
	}
}
