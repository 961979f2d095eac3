package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodePersistence, cause, "update quote")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodePersistence {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeNotFound, "quote not found")
	wrapped := fmt.Errorf("lifecycle: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestMetadataForPartialReconciliation(t *testing.T) {
	meta := MetadataFor(CodePartialReconciliation)
	if meta.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("expected 502 for partial reconciliation, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("partial reconciliation must surface which guarantees held")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", meta.HTTPStatus)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeValidation, "bad input"))
	if !IsCode(err, CodeValidation) {
		t.Fatal("expected validation code")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("did not expect not-found code")
	}
}
