package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. metrics may be nil.
func NewServer(port string, handler *Handler, metrics http.Handler, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/accounts", handler.ListAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{address}/ledger", handler.GetLedger)
	mux.HandleFunc("GET /api/v1/accounts/{address}/ledger.xlsx", handler.ExportLedger)
	mux.HandleFunc("GET /api/v1/accounts/{address}/runs", handler.ListRuns)
	mux.HandleFunc("GET /api/v1/accounts/{address}/runs/latest", handler.LatestRun)
	mux.HandleFunc("GET /api/v1/format", handler.FormatAmount)
	mux.HandleFunc("GET /api/v1/parse", handler.ParseAmount)

	refreshHandler := http.HandlerFunc(handler.RefreshLedger)
	if adminAPIKey != "" {
		mux.Handle("POST /api/v1/accounts/{address}/refresh", requireAuth(adminAPIKey, refreshHandler))
	} else {
		mux.Handle("POST /api/v1/accounts/{address}/refresh", refreshHandler)
	}

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
