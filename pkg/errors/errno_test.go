package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		expected int
	}{
		{0, 0, 0, 0},
		{0, 1, 1, 1001},
		{10, 1, 2, 1001002},
		{10, 10, 1, 1010001},
		{10, 12, 1, 1012001},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.service, tt.category, tt.sequence), func(t *testing.T) {
			got := MakeCode(tt.service, tt.category, tt.sequence)
			if got != tt.expected {
				t.Errorf("MakeCode(%d, %d, %d) = %d, want %d",
					tt.service, tt.category, tt.sequence, got, tt.expected)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	service, category, sequence := ParseCode(ErrInvalidMode.Code)
	if service != ServiceDocBridge || category != CategoryConflict || sequence != 1 {
		t.Errorf("ParseCode(%d) = (%d, %d, %d)", ErrInvalidMode.Code, service, category, sequence)
	}
	if got := GetCategory(ErrDoesNotExist.Code); got != CategoryResource {
		t.Errorf("GetCategory() = %d, want %d", got, CategoryResource)
	}
}

func TestTaxonomyStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Errno
		http int
		grpc codes.Code
	}{
		{"malformed query", ErrMalformedQuery, http.StatusBadRequest, codes.InvalidArgument},
		{"unsupported modifier", ErrUnsupportedModifier, http.StatusBadRequest, codes.InvalidArgument},
		{"value not supported", ErrValueNotSupported, http.StatusBadRequest, codes.InvalidArgument},
		{"incorrect credentials", ErrIncorrectCredentials, http.StatusInternalServerError, codes.InvalidArgument},
		{"does not exist", ErrDoesNotExist, http.StatusNotFound, codes.NotFound},
		{"connection failure", ErrConnectionFailure, http.StatusServiceUnavailable, codes.Unavailable},
		{"operation failure", ErrOperationFailure, http.StatusInternalServerError, codes.Internal},
		{"invalid mode", ErrInvalidMode, http.StatusConflict, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.http {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.http)
			}
			if got := tt.err.GRPCStatus(); got != tt.grpc {
				t.Errorf("GRPCStatus() = %v, want %v", got, tt.grpc)
			}
			if _, ok := Lookup(tt.err.Code); !ok {
				t.Errorf("code %d is not registered", tt.err.Code)
			}
		})
	}
}

func TestErrnoWithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrConnectionFailure.WithCause(cause).WithMessagef("max number of retries (%d) reached", 2)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if !stderrors.Is(err, ErrConnectionFailure) {
		t.Error("derived error should match its base by code")
	}
	if stderrors.Is(err, ErrOperationFailure) {
		t.Error("derived error should not match a different code")
	}
	if ErrConnectionFailure.Unwrap() != nil {
		t.Error("base error must not be mutated by WithCause")
	}

	want := "errno 1010001: max number of retries (2) reached: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrnoThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("guard: %w", ErrInvalidMode.WithMessage("bound to query"))

	if !Is(err, ErrInvalidMode) {
		t.Error("Is should see through fmt wrapping")
	}
	if !IsCode(err, ErrInvalidMode.Code) {
		t.Error("IsCode should see through fmt wrapping")
	}
	if got := GetCode(err); got != ErrInvalidMode.Code {
		t.Errorf("GetCode() = %d, want %d", got, ErrInvalidMode.Code)
	}
	if got := GetCode(stderrors.New("plain")); got != -1 {
		t.Errorf("GetCode(plain) = %d, want -1", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := stderrors.New("boom")
	e := FromError(plain)
	if e.Code != ErrInternal.Code {
		t.Errorf("FromError(plain).Code = %d, want %d", e.Code, ErrInternal.Code)
	}

	e = FromError(fmt.Errorf("ctx: %w", ErrDoesNotExist))
	if e.Code != ErrDoesNotExist.Code {
		t.Errorf("FromError(wrapped).Code = %d, want %d", e.Code, ErrDoesNotExist.Code)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Register should panic on duplicate code")
		}
	}()
	Register(&Errno{Code: ErrMalformedQuery.Code, MessageEN: "dup"})
}

func TestMessageLanguage(t *testing.T) {
	if got := ErrInvalidMode.Message("zh"); got != "连接模式不匹配" {
		t.Errorf("Message(zh) = %q", got)
	}
	if got := ErrInvalidMode.Message("en"); got != ErrInvalidMode.MessageEN {
		t.Errorf("Message(en) = %q", got)
	}
}

func TestOKCode(t *testing.T) {
	if OK.Code != 0 || GetCategory(OK.Code) != CategorySuccess {
		t.Errorf("OK.Code = %d, want 0 in category %d", OK.Code, CategorySuccess)
	}
}
