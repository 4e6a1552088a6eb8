package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"incorrect password", ErrPasswordMismatch, http.StatusBadRequest},
		{"email exists", ErrEmailExists, http.StatusBadRequest},
		{"username exists", ErrUsernameExists, http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid refresh token", ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"refresh token expired", ErrRefreshTokenExpired, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"account inactive", ErrAccountInactive, http.StatusForbidden},
		{"self deletion", ErrSelfDeletion, http.StatusForbidden},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"service not found", ErrServiceNotFound, http.StatusNotFound},
		{"not implemented", ErrNotImplemented, http.StatusNotImplemented},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"unknown error", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToHTTPStatus(tc.err); got != tc.want {
				t.Errorf("ToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := WrapError(ErrInvalidRefreshToken, stderrors.New("row not found"))

	if !stderrors.Is(wrapped, ErrInvalidRefreshToken) {
		t.Error("Expected wrapped error to match its predefined error by code")
	}
	if stderrors.Is(wrapped, ErrInvalidCredentials) {
		t.Error("Expected different codes not to match")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := WrapError(ErrInternal, cause)

	if !stderrors.Is(wrapped, cause) {
		t.Error("Expected the underlying cause to be reachable via Unwrap")
	}
}

func TestWithMessage(t *testing.T) {
	custom := WithMessage(ErrInvalidInput, "username is too short")

	if custom.Code != ErrInvalidInput.Code {
		t.Errorf("Expected code %q preserved, got %q", ErrInvalidInput.Code, custom.Code)
	}
	if custom.Message != "username is too short" {
		t.Errorf("Unexpected message %q", custom.Message)
	}
	if !stderrors.Is(custom, ErrInvalidInput) {
		t.Error("Expected custom message copy to still match by code")
	}
}

func TestGetErrorMessage(t *testing.T) {
	if msg := GetErrorMessage(ErrUserNotFound); msg != "user not found" {
		t.Errorf("Unexpected message %q", msg)
	}
	if msg := GetErrorMessage(stderrors.New("raw")); msg != "raw" {
		t.Errorf("Unexpected message %q", msg)
	}
	if msg := GetErrorMessage(nil); msg != "" {
		t.Errorf("Expected empty message for nil, got %q", msg)
	}
}
