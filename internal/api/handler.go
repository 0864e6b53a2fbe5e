package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sheikh-saqib/commission-ledger/internal/ledger"
	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/sheikh-saqib/commission-ledger/internal/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// LedgerService is what the handlers need from the ledger.
type LedgerService interface {
	RegisterSale(ctx context.Context, sale models.Sale) ([]models.LedgerEntry, error)
	Entries(ctx context.Context) ([]models.LedgerEntry, error)
	EntriesBySource(ctx context.Context, source models.Source) ([]models.LedgerEntry, error)
	ReplaceEntries(ctx context.Context, entries []models.LedgerEntry) error
	Summary(ctx context.Context) (models.Summary, error)
}

type Handler struct {
	ledger LedgerService
	logger *zap.Logger
}

func NewHandler(svc LedgerService, logger *zap.Logger) *Handler {
	return &Handler{ledger: svc, logger: logger}
}

// Router wires the routes onto a gorilla/mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/sales", h.RegisterSale).Methods(http.MethodPost)
	r.HandleFunc("/entries", h.ListEntries).Methods(http.MethodGet)
	r.HandleFunc("/entries", h.ReplaceEntries).Methods(http.MethodPut)
	r.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RegisterSale(w http.ResponseWriter, r *http.Request) {
	var sale models.Sale
	if err := decodeBody(w, r, &sale); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.ledger.RegisterSale(r.Context(), sale)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	var (
		entries []models.LedgerEntry
		err     error
	)

	if source := r.URL.Query().Get("source"); source != "" {
		entries, err = h.ledger.EntriesBySource(r.Context(), models.Source(source))
	} else {
		entries, err = h.ledger.Entries(r.Context())
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) ReplaceEntries(w http.ResponseWriter, r *http.Request) {
	var entries []models.LedgerEntry
	if err := decodeBody(w, r, &entries); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ledger.ReplaceEntries(r.Context(), entries); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"entry_count": len(entries)})
}

type summaryResponse struct {
	Totals          map[models.Source]decimal.Decimal `json:"totals"`
	FixedMonthlyFee decimal.Decimal                   `json:"fixed_monthly_fee"`
	Cards           []report.Card                     `json:"cards"`
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Totals:          summary.Totals,
		FixedMonthlyFee: summary.FixedMonthlyFee,
		Cards:           report.Cards(summary),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrClientRequired),
		errors.Is(err, ledger.ErrInvalidSale),
		errors.Is(err, ledger.ErrInvalidEntry),
		errors.Is(err, ledger.ErrUnknownSource):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
