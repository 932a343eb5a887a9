package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/kitkwok/tightzone/internal/chart"
	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/logger"
)

// StockSource produces the current VCP result set.
type StockSource interface {
	Stocks(ctx context.Context, forceRefresh bool) ([]screener.Row, error)
	ChartDir() string
}

// StocksHandler serves the screened stock list, per-symbol charts and the
// forced refresh trigger.
type StocksHandler struct {
	source StockSource
	logger *logger.Logger
}

// NewStocksHandler creates a new stocks handler.
func NewStocksHandler(source StockSource, log *logger.Logger) *StocksHandler {
	return &StocksHandler{
		source: source,
		logger: log,
	}
}

// GetStocks returns all VCP stocks.
// GET /api/stocks
func (h *StocksHandler) GetStocks(w http.ResponseWriter, r *http.Request) {
	rows, err := h.source.Stocks(r.Context(), false)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get stocks")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if rows == nil {
		rows = []screener.Row{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// GetChart serves the rendered chart for one symbol.
// GET /api/stocks/{symbol}/chart
func (h *StocksHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	path := filepath.Join(h.source.ChartDir(), chart.SafeFileName(symbol)+".svg")
	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "Chart not found")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	http.ServeFile(w, r, path)
}

// Refresh forces a re-scan and cache rebuild.
// GET /api/refresh
func (h *StocksHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	rows, err := h.source.Stocks(r.Context(), true)
	if err != nil {
		h.logger.WithError(err).Error("Refresh failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Data refreshed",
		"count":   len(rows),
	})
}
