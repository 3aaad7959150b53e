package channel_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ko_lake_villa/internal/adapters/channel"
)

func TestClient_GetNightlyRate_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"listingCode":"KNP","nightlyRate":"431.50","currency":"USD"}`))
		}
	}))
	defer ts.Close()

	cl, err := channel.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetNightlyRate(ctx, "KNP")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.StringFixed(2) != "431.50" {
		t.Fatalf("rate = %s", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetNightlyRate_SingleRateEndpoint(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path != "/listings/KNP3/rate" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"listingCode":"KNP3","nightlyRate":120}`))
	}))
	defer ts.Close()

	cl, _ := channel.New(ts.URL+"/", "k", 100)
	got, err := cl.GetNightlyRate(context.Background(), "KNP3")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.IntPart() != 120 {
		t.Fatalf("rate = %s", got)
	}

	mu.Lock()
	paths = nil
	mu.Unlock()
	if _, err := cl.GetNightlyRate(context.Background(), "KNP9"); !errors.Is(err, channel.ErrNotFound) {
		t.Fatalf("err = %v; want not found", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != "/listings/KNP9/rate" {
		t.Fatalf("unknown listing should be asked once, got %v", paths)
	}
}

func TestClient_GetNightlyRate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }, channel.ErrNotFound},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) }, channel.ErrUnauthorized},
		{"forbidden", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }, channel.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()
			cl, _ := channel.New(ts.URL, "k", 100)

			_, err := cl.GetNightlyRate(context.Background(), "KNP")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestClient_GetNightlyRate_ZeroRateRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"listingCode":"KNP","nightlyRate":0}`))
	}))
	defer ts.Close()
	cl, _ := channel.New(ts.URL, "k", 100)

	if _, err := cl.GetNightlyRate(context.Background(), "KNP"); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := channel.New("http://x", "", 1); err == nil {
		t.Fatal("expected error without key")
	}
}
