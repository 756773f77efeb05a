package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newIdempotentHandler(t *testing.T) (http.Handler, *int) {
	t.Helper()
	store := NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)

	calls := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"attempt":%d}`, calls)
	})
	return Idempotency(store, "")(inner), &calls
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	handler, calls := newIdempotentHandler(t)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader("{}"))
	req.Header.Set(DefaultIdempotencyHeader, "abc-123")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	replay := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader("{}"))
	replay.Header.Set(DefaultIdempotencyHeader, "abc-123")
	handler.ServeHTTP(second, replay)

	if *calls != 1 {
		t.Errorf("expected 1 handler invocation, got %d", *calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("replay status = %d, want %d", second.Code, http.StatusCreated)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replay body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestIdempotency_DistinctKeysAreIndependent(t *testing.T) {
	handler, calls := newIdempotentHandler(t)

	for _, key := range []string{"k1", "k2"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader("{}"))
		req.Header.Set(DefaultIdempotencyHeader, key)
		handler.ServeHTTP(rec, req)
	}

	if *calls != 2 {
		t.Errorf("expected 2 handler invocations, got %d", *calls)
	}
}

func TestIdempotency_SameKeyDifferentPathNotShared(t *testing.T) {
	handler, calls := newIdempotentHandler(t)

	for _, path := range []string{"/api/v1/resources", "/api/v1/events"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.Header.Set(DefaultIdempotencyHeader, "shared")
		handler.ServeHTTP(rec, req)
	}

	if *calls != 2 {
		t.Errorf("expected 2 handler invocations, got %d", *calls)
	}
}

func TestIdempotency_ReadsPassThrough(t *testing.T) {
	handler, calls := newIdempotentHandler(t)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
		req.Header.Set(DefaultIdempotencyHeader, "abc-123")
		handler.ServeHTTP(rec, req)
	}

	if *calls != 2 {
		t.Errorf("expected GET requests to bypass the cache, got %d invocations", *calls)
	}
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)

	calls := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(store, "")(inner)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader("{}"))
		req.Header.Set(DefaultIdempotencyHeader, "retry-me")
		handler.ServeHTTP(rec, req)
		if i == 1 && rec.Code != http.StatusCreated {
			t.Errorf("retry after failure status = %d, want %d", rec.Code, http.StatusCreated)
		}
	}

	if calls != 2 {
		t.Errorf("expected failed response to not be cached, got %d invocations", calls)
	}
}
