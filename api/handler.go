package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/go-chi/chi/v5"
)

// RateHandler serves the current rates.
type RateHandler struct {
	snapshots  valutatrade.SnapshotReader
	resolver   *valutatrade.Resolver
	currencies *valutatrade.Registry
	logger     *slog.Logger
}

// NewRateHandler creates a RateHandler.
func NewRateHandler(snapshots valutatrade.SnapshotReader, resolver *valutatrade.Resolver, currencies *valutatrade.Registry, logger *slog.Logger) *RateHandler {
	return &RateHandler{snapshots: snapshots, resolver: resolver, currencies: currencies, logger: logger}
}

// RateEntry is a snapshot entry in API responses.
type RateEntry struct {
	Pair      string    `json:"pair"`
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
	Fresh     bool      `json:"fresh"`
}

// RatesResponse is the body of GET /rates.
type RatesResponse struct {
	LastRefresh *time.Time  `json:"last_refresh"`
	Rates       []RateEntry `json:"rates"`
}

// QuoteResponse is the body of GET /rates/{from}/{to}.
type QuoteResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      float64   `json:"rate"`
	Inverse   float64   `json:"inverse"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source,omitempty"`
	Derived   bool      `json:"derived"`
}

func (h *RateHandler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *RateHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var e *valutatrade.Error
	switch {
	case errors.As(err, &e) && (e.Kind == valutatrade.KindValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, valutatrade.ErrCurrencyNotFound), errors.Is(err, valutatrade.ErrRateUnavailable):
		statusCode = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, valutatrade.ErrStaleRate):
		statusCode = http.StatusServiceUnavailable
		message = err.Error()
	default:
		h.logger.Error("Unhandled error", "error", err)
	}
	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// ListRates handles GET /rates?currency=X&top=N.
func (h *RateHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	var filter valutatrade.RateFilter
	if c := r.URL.Query().Get("currency"); c != "" {
		cur, err := h.currencies.Lookup(c)
		if err != nil {
			h.respondWithError(w, err)
			return
		}
		filter.Currency = cur.Code
	}
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n <= 0 {
			h.respondWithError(w, &valutatrade.Error{Kind: valutatrade.KindValidation, Reason: "top must be a positive integer"})
			return
		}
		filter.Top = n
	}

	snap, err := h.snapshots.ReadSnapshot()
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	resp := RatesResponse{Rates: []RateEntry{}}
	if snap != nil {
		resp.LastRefresh = &snap.LastRefresh
		for _, p := range snap.Select(filter, h.currencies) {
			e := snap.Pairs[p]
			resp.Rates = append(resp.Rates, RateEntry{
				Pair:      p.String(),
				Rate:      e.Rate,
				UpdatedAt: e.UpdatedAt,
				Source:    e.Source,
				Fresh:     h.resolver.IsFresh(e.UpdatedAt),
			})
		}
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

// GetRate handles GET /rates/{from}/{to}.
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	from, err := h.currencies.Lookup(chi.URLParam(r, "from"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	to, err := h.currencies.Lookup(chi.URLParam(r, "to"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	q, err := h.resolver.Resolve(from.Code, to.Code)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, QuoteResponse{
		From:      string(q.Pair.From),
		To:        string(q.Pair.To),
		Rate:      q.Rate,
		Inverse:   1 / q.Rate,
		UpdatedAt: q.UpdatedAt,
		Source:    q.Source,
		Derived:   q.Derived,
	})
}
