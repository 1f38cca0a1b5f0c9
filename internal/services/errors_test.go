package services_test

import (
	"errors"
	"strings"
	"testing"

	"dsproc/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrCollision, "sort", "/out/1.png", "copy", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrCollision) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sort", "/out/1.png", "copy"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToIO(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestBatchErrorUnwrapsMarker(t *testing.T) {
	inner := services.Wrap(services.ErrFormat, "filter", "cat.png", "non-numeric name", nil)
	err := error(&services.BatchError{Operation: "filter", Path: "cat.png", Completed: 2, Total: 5, Err: inner})

	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected format marker through batch error, got %v", err)
	}
	var batch *services.BatchError
	if !errors.As(err, &batch) || batch.Completed != 2 {
		t.Fatalf("expected batch error with completed=2, got %#v", batch)
	}
	if !strings.Contains(err.Error(), "after 2 of 5 groups") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrCollision, "backup", "", "", nil), "collision"},
		{services.Wrap(services.ErrInvalidArgument, "filter", "", "", nil), "invalid_argument"},
		{services.Wrap(services.ErrFormat, "filter", "", "", nil), "format"},
		{services.Wrap(services.ErrIO, "renumber", "", "", nil), "io"},
		{services.Wrap(services.ErrNotFound, "filter", "/ds/1.txt", "no sidecar", nil), "not_found"},
		{errors.New("plain"), "unknown"},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
