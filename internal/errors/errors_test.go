package errors

import (
	"fmt"
	"io"
	"testing"
)

func TestIsTypeFollowsWrappedChain(t *testing.T) {
	err := fmt.Errorf("decode request: %w", Validation("carpetArea must be greater than 0"))

	if !IsType(err, TypeValidation) {
		t.Fatalf("expected wrapped validation error to be detected")
	}
	if IsType(err, TypeInternal) {
		t.Fatalf("validation error must not report internal type")
	}
}

func TestTypeOfUntypedErrorIsInternal(t *testing.T) {
	if got := TypeOf(io.EOF); got != TypeInternal {
		t.Fatalf("TypeOf(io.EOF) = %s, want %s", got, TypeInternal)
	}
	if got := TypeOf(Config("bad")); got != TypeConfig {
		t.Fatalf("TypeOf(Config) = %s, want %s", got, TypeConfig)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Internal("load catalog", io.ErrUnexpectedEOF)

	want := "[INTERNAL_ERROR] load catalog: unexpected EOF"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Unwrap() != io.ErrUnexpectedEOF {
		t.Fatalf("Unwrap did not return cause")
	}
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("calculate: %w", Validation("Invalid carpet area"))
	if got := MessageOf(wrapped); got != "Invalid carpet area" {
		t.Fatalf("MessageOf(typed) = %q", got)
	}
	if got := MessageOf(io.EOF); got != "EOF" {
		t.Fatalf("MessageOf(untyped) = %q", got)
	}
}
