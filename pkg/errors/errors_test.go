package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("item", "FX2N-16EX")

	if got := err.Error(); got != "item with ID FX2N-16EX not found" {
		t.Errorf("unexpected message: %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound) to be true")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound should report false for unrelated errors")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("list_price", "-4", "must not be negative")

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected validation error to match ErrInvalidInput")
	}
	if got := err.Error(); got != "validation failed for field list_price: must not be negative" {
		t.Errorf("unexpected message: %q", got)
	}

	// Without a field name the message drops the field clause.
	bare := &ValidationError{Message: "empty row"}
	if got := bare.Error(); got != "validation failed: empty row" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestIngestErrorFormats(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  *IngestError
		want string
	}{
		{
			name: "file only",
			err:  NewIngestError("festo.xlsx", "", 0, base),
			want: "ingest error in festo.xlsx: boom",
		},
		{
			name: "file and sheet",
			err:  NewIngestError("festo.xlsx", "Stock", 0, base),
			want: "ingest error in festo.xlsx sheet Stock: boom",
		},
		{
			name: "file sheet and row",
			err:  NewIngestError("festo.xlsx", "Stock", 12, base),
			want: "ingest error in festo.xlsx sheet Stock row 12: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, base) {
				t.Error("IngestError should unwrap to its cause")
			}
		})
	}
}

func TestStoreErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("database is locked")
	err := WrapStore("upsert", "items", cause)

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatal("expected a *StoreError")
	}
	if storeErr.Operation != "upsert" || storeErr.Table != "items" {
		t.Errorf("unexpected fields: %+v", storeErr)
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}

	if WrapStore("query", "items", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapHelpersPreserveNil(t *testing.T) {
	if WrapIO("read", "a.xlsx", nil) != nil {
		t.Error("WrapIO(nil) should be nil")
	}
	if WrapParse("xlsx", "a.xlsx", nil) != nil {
		t.Error("WrapParse(nil) should be nil")
	}
	if WrapValidation("brand", nil) != nil {
		t.Error("WrapValidation(nil) should be nil")
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError("slack", 429, "rate limited")
	if got := err.Error(); got != "API error from slack (status 429): rate limited" {
		t.Errorf("unexpected message: %q", got)
	}

	noStatus := &APIError{Service: "gemini", Message: "empty response"}
	if got := noStatus.Error(); got != "API error from gemini: empty response" {
		t.Errorf("unexpected message: %q", got)
	}
}
