package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/suiledger/internal/coin"
	"github.com/mtlprog/suiledger/internal/domain"
	"github.com/mtlprog/suiledger/internal/export"
	"github.com/mtlprog/suiledger/internal/journal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LedgerReader returns the current ledger state of accounts.
type LedgerReader interface {
	Get(address string) domain.LedgerState
	Addresses() []string
}

// CycleDispatcher starts a reconciliation cycle in the background.
type CycleDispatcher interface {
	Dispatch(ctx context.Context, address string)
}

// RunReader reads recorded cycles of an account.
type RunReader interface {
	Latest(ctx context.Context, address string) (*journal.Run, error)
	ListByAddress(ctx context.Context, address string, limit int) ([]journal.Run, error)
}

// Handler provides HTTP endpoints for the ledger API.
type Handler struct {
	ledger   LedgerReader
	cycles   CycleDispatcher
	runs     RunReader
	registry *coin.Registry
}

// NewHandler creates a new API handler. runs may be nil when no journal is configured.
func NewHandler(ledger LedgerReader, cycles CycleDispatcher, runs RunReader, registry *coin.Registry) *Handler {
	return &Handler{ledger: ledger, cycles: cycles, runs: runs, registry: registry}
}

type ledgerResponse struct {
	Address         string            `json:"address"`
	Phase           domain.Phase      `json:"phase"`
	Loading         bool              `json:"loading"`
	Error           *domain.ErrorInfo `json:"error"`
	Mode            coin.Mode         `json:"mode"`
	Entries         []export.Row      `json:"entries"`
	RecentAddresses []string          `json:"recentAddresses"`
}

type accountSummary struct {
	Address string       `json:"address"`
	Phase   domain.Phase `json:"phase"`
	Entries int          `json:"entries"`
}

// ListAccounts handles GET /api/v1/accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	addresses := h.ledger.Addresses()
	out := make([]accountSummary, 0, len(addresses))
	for _, addr := range addresses {
		state := h.ledger.Get(addr)
		out = append(out, accountSummary{Address: addr, Phase: state.Phase, Entries: len(state.Entries)})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetLedger handles GET /api/v1/accounts/{address}/ledger.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	mode, err := coin.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := h.ledger.Get(address)
	writeJSON(w, http.StatusOK, ledgerResponse{
		Address:         address,
		Phase:           state.Phase,
		Loading:         state.Loading,
		Error:           state.Error,
		Mode:            mode,
		Entries:         export.BuildRows(state.Entries, h.registry, mode),
		RecentAddresses: state.RecentAddresses,
	})
}

// RefreshLedger handles POST /api/v1/accounts/{address}/refresh.
func (h *Handler) RefreshLedger(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.PathValue("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	h.cycles.Dispatch(r.Context(), address)
	writeJSON(w, http.StatusAccepted, map[string]string{"address": address, "status": "refreshing"})
}

// ExportLedger handles GET /api/v1/accounts/{address}/ledger.xlsx.
func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	mode, err := coin.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := h.ledger.Get(address)
	if state.Phase != domain.PhaseLoaded {
		writeError(w, http.StatusConflict, fmt.Sprintf("ledger is %s, not loaded", state.Phase))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.BuildRows(state.Entries, h.registry, mode)); err != nil {
		slog.Error("failed to export ledger", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%s.xlsx"`, address))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
	}
}

// ListRuns handles GET /api/v1/accounts/{address}/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, http.StatusNotFound, "run journal not configured")
		return
	}

	const maxLimit = 200
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	address := r.PathValue("address")
	runs, err := h.runs.ListByAddress(r.Context(), address, limit)
	if err != nil {
		slog.Error("failed to list runs", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if runs == nil {
		runs = []journal.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// LatestRun handles GET /api/v1/accounts/{address}/runs/latest.
func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, http.StatusNotFound, "run journal not configured")
		return
	}

	address := r.PathValue("address")
	run, err := h.runs.Latest(r.Context(), address)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no runs recorded")
			return
		}
		slog.Error("failed to get latest run", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// FormatAmount handles GET /api/v1/format.
func (h *Handler) FormatAmount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	balance, err := coin.ParseBalance(q.Get("balance"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "balance must be a non-negative integer")
		return
	}
	coinType, err := parseCoinTypeParam(q.Get("coinType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := coin.ParseMode(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.registry.FormatForDisplay(balance, coinType, mode))
}

type parseResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	CoinType string          `json:"coinType"`
	Decimals int32           `json:"decimals"`
}

// ParseAmount handles GET /api/v1/parse.
func (h *Handler) ParseAmount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coinType, err := parseCoinTypeParam(q.Get("coinType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := h.registry.ParseAmount(q.Get("amount"), coinType)
	if err != nil {
		if errors.Is(err, coin.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to parse amount", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Amount:   amount,
		CoinType: coinType.Canonical(),
		Decimals: h.registry.Decimals(coinType),
	})
}

// parseCoinTypeParam parses a coin type query value, defaulting to the native coin.
func parseCoinTypeParam(s string) (domain.CoinTypeTag, error) {
	if strings.TrimSpace(s) == "" {
		return domain.NativeCoin(), nil
	}
	return coin.ParseCoinType(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
