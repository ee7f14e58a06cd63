package fetchers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"comparador/internal/models"
)

func newTestFetcher(url string) *DadosFetcher {
	return NewDadosFetcher(Options{BaseURL: url, Timeout: 2 * time.Second})
}

func testRequest() models.RefreshRequest {
	return models.RefreshRequest{Indicador1: "dolar", Indicador2: "ibov", Periodo: "24"}
}

func TestFetchComparison(t *testing.T) {
	var gotPath, gotAccept string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotQuery = map[string]string{
			"indicador1": r.URL.Query().Get("indicador1"),
			"indicador2": r.URL.Query().Get("indicador2"),
			"periodo":    r.URL.Query().Get("periodo"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"indicador1":"DOLAR","indicador2":"IBOV","datas":["2024-01-01","2024-02-01"],"valores1":[4.9,4.97],"valores2":[127000,129500]}`))
	}))
	defer server.Close()

	payload, err := newTestFetcher(server.URL).FetchComparison(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("FetchComparison failed: %v", err)
	}

	if gotPath != DadosPath {
		t.Errorf("Expected path %s, got %s", DadosPath, gotPath)
	}
	if gotAccept != "application/json" {
		t.Errorf("Expected Accept application/json, got %q", gotAccept)
	}
	for k, want := range testRequest().Query() {
		if gotQuery[k] != want {
			t.Errorf("Expected query %s=%s, got %q", k, want, gotQuery[k])
		}
	}

	if payload.Indicador1 != "DOLAR" || payload.Indicador2 != "IBOV" {
		t.Errorf("Unexpected indicator names: %s, %s", payload.Indicador1, payload.Indicador2)
	}
	if len(payload.Datas) != 2 || len(payload.Valores1) != 2 || len(payload.Valores2) != 2 {
		t.Errorf("Unexpected payload lengths: %+v", payload)
	}
}

func TestFetchComparisonErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantPayload bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"erro":"falha"}`, wantStatus: 500},
		{name: "not found", status: http.StatusNotFound, body: ``, wantStatus: 404},
		{name: "malformed json", status: http.StatusOK, body: `{"datas": [`, wantPayload: true},
		{name: "wrong types", status: http.StatusOK, body: `{"datas": "2024-01-01"}`, wantPayload: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestFetcher(server.URL).FetchComparison(context.Background(), testRequest())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var statusErr *StatusError
			if tt.wantStatus != 0 {
				if !errors.As(err, &statusErr) || statusErr.Code != tt.wantStatus {
					t.Errorf("Expected status error %d, got %v", tt.wantStatus, err)
				}
			}
			if tt.wantPayload && !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestFetchComparisonContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(server.URL).FetchComparison(ctx, testRequest())
	if err == nil {
		t.Fatal("Expected error due to cancelled context, got nil")
	}
	if !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("Expected context cancellation error, got: %v", err)
	}
}

func TestFetchComparisonUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestFetcher(url).FetchComparison(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Expected error for closed server, got nil")
	}
	if errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Transport failure should not be reported as invalid payload: %v", err)
	}
}

func TestNewDadosFetcher(t *testing.T) {
	f := NewDadosFetcher(Options{BaseURL: "http://example.test", Timeout: time.Second, RetryCount: 2})
	if f.client == nil {
		t.Fatal("HTTP client not initialized")
	}
	if f.client.RetryCount != 2 {
		t.Errorf("Expected retry count 2, got %d", f.client.RetryCount)
	}
	if f.client.BaseURL != "http://example.test" {
		t.Errorf("Expected base URL to be set, got %q", f.client.BaseURL)
	}
}
