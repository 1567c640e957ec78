package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestClient_QuerySendsFiltersAndKeys(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("habit_id")
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key", BreakerSettings{})

	body, err := c.Query(context.Background(), "habit_logs", map[string]interface{}{"habit_id": "eq.h1"})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("body = %s, want []", body)
	}
	if gotPath != "/rest/v1/habit_logs" {
		t.Errorf("path = %s", gotPath)
	}
	if gotQuery != "eq.h1" {
		t.Errorf("habit_id filter = %q, want eq.h1", gotQuery)
	}
	if gotAPIKey != "service-key" || gotAuth != "Bearer service-key" {
		t.Errorf("apikey=%q auth=%q", gotAPIKey, gotAuth)
	}

	if _, err := c.Query(WithUserToken(context.Background(), "user-jwt"), "habits", nil); err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if gotAuth != "Bearer user-jwt" {
		t.Errorf("auth with user token = %q, want Bearer user-jwt", gotAuth)
	}
}

func TestClient_ErrorStatusReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", BreakerSettings{})
	_, err := c.Insert(context.Background(), "habits", map[string]string{"name": "x"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want 409", apiErr.StatusCode)
	}
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var transitions atomic.Int32
	c := NewClient(srv.URL, "key", BreakerSettings{
		FailureThreshold: 3,
		Timeout:          time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			transitions.Add(1)
		},
	})

	for i := 0; i < 3; i++ {
		if _, err := c.Query(context.Background(), "habits", nil); err == nil {
			t.Fatal("expected error from 502")
		}
	}

	if c.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("state = %s, want open", c.BreakerState())
	}

	_, err := c.Query(context.Background(), "habits", nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if calls.Load() != 3 {
		t.Errorf("upstream calls = %d, want 3", calls.Load())
	}
	if transitions.Load() != 1 {
		t.Errorf("transitions = %d, want 1", transitions.Load())
	}
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", BreakerSettings{FailureThreshold: 2})
	for i := 0; i < 5; i++ {
		c.Query(context.Background(), "habits", nil)
	}

	if c.BreakerState() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", c.BreakerState())
	}
}

func TestClient_VerifyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"user-1","email":"a@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", BreakerSettings{})

	user, err := c.VerifyToken(context.Background(), "good")
	if err != nil {
		t.Fatalf("VerifyToken() error: %v", err)
	}
	if user.ID != "user-1" || user.Email != "a@example.com" {
		t.Errorf("user = %+v", user)
	}

	if _, err := c.VerifyToken(context.Background(), "bad"); err == nil {
		t.Error("VerifyToken(bad) succeeded, want error")
	}
}
