package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mtlprog/suiledger/internal/coin"
	"github.com/mtlprog/suiledger/internal/domain"
)

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"valid token", "Bearer secret-key", http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong token", "Bearer wrong-key", http.StatusUnauthorized, false},
		{"malformed header", "Basic secret-key", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			requireAuth("secret-key", next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestServerRoutes(t *testing.T) {
	ledger := &mockLedger{states: map[string]domain.LedgerState{"0xme": domain.LoadedState(testEntries())}}
	cycles := &mockDispatcher{}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("suiledger_cycles_total 1\n"))
	})
	srv := NewServer("0", NewHandler(ledger, cycles, nil, coin.DefaultRegistry()), metrics, "secret-key")

	tests := []struct {
		method     string
		path       string
		auth       string
		wantStatus int
	}{
		{http.MethodGet, "/api/v1/accounts/0xme/ledger", "", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/0xme/ledger.xlsx", "", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts", "", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/0xme/runs", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/accounts/0xme/runs/latest", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/format?balance=1", "", http.StatusOK},
		{http.MethodGet, "/api/v1/parse?amount=1", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/v1/accounts/0xme/refresh", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/accounts/0xme/refresh", "Bearer secret-key", http.StatusAccepted},
		{http.MethodPost, "/api/v1/accounts/0xme/ledger", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, strings.TrimSpace(w.Body.String()))
			}
		})
	}

	if len(cycles.addresses) != 1 || cycles.addresses[0] != "0xme" {
		t.Errorf("dispatched = %v, want one authorized refresh", cycles.addresses)
	}
}
