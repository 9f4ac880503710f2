package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}

func TestIncomingRequestID(t *testing.T) {
	t.Run("valid uuid is kept", func(t *testing.T) {
		want := uuid.New().String()
		r := httptest.NewRequest(http.MethodGet, "/calculator/sessions", nil)
		r.Header.Set(RequestIDHeader, want)

		if got := IncomingRequestID(r); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("garbage is replaced", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/calculator/sessions", nil)
		r.Header.Set(RequestIDHeader, "<script>")

		got := IncomingRequestID(r)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected fresh UUID, got %q: %v", got, err)
		}
	})
}
