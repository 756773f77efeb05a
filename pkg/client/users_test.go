package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "campushub/pkg/errors"
)

func TestGetUser_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/id/U-0001" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"user_id":"U-0001","name":"Dana Levi","email":"dana@example.edu"}}`))
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL)
	user, err := c.GetUser(context.Background(), "U-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserID != "U-0001" || user.Name != "Dana Levi" {
		t.Errorf("decoded user = %+v", user)
	}
}

func TestGetUser_MapsMissingUserToNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"User with ID U-9999 not found"}`))
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL)
	_, err := c.GetUser(context.Background(), "U-9999")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetUser_SurfacesUpstreamErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL)
	_, err := c.GetUser(context.Background(), "U-0001")
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !strings.Contains(err.Error(), "database unavailable") {
		t.Errorf("error %q does not carry the upstream message", err.Error())
	}
}

func TestWaitForHealthy_ReturnsOnceHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL)
	if err := c.WaitForHealthy(2 * time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForHealthy_TimesOutWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	srv.Close()

	c := NewUserClient(srv.URL)
	if err := c.WaitForHealthy(10 * time.Millisecond); err == nil {
		t.Fatal("expected error for an unreachable service")
	}
}