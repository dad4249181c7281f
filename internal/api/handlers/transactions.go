package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmelikhov/finbuddy/internal/api/middleware"
	"github.com/dmelikhov/finbuddy/internal/extract"
	"github.com/dmelikhov/finbuddy/internal/store"
)

const (
	// summaryWindowDays bounds the "recent history" window for the
	// dashboard summary and advice prompts.
	summaryWindowDays = 90

	defaultListLimit = 100
)

// TransactionsHandler handles persisted-transaction endpoints.
type TransactionsHandler struct {
	repo store.TransactionRepository
	log  zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo store.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		repo: repo,
		log:  log,
	}
}

// invalidTransaction reports one rejected bulk-create row back to the
// caller, referencing its position in the submitted array.
type invalidTransaction struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BulkCreate handles POST /api/transactions/bulk. Rows are user-approved
// or user-edited candidates; each one goes through the same normalization
// as the AI path. Rows that fail normalization are reported individually
// and never abort the batch; valid rows are persisted together.
func (h *TransactionsHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Transactions []interface{} `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Transactions) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No transactions provided")
		return
	}

	rows := make([]*store.TransactionRow, 0, len(req.Transactions))
	invalid := make([]invalidTransaction, 0)

	for i, rec := range req.Transactions {
		cand, err := extract.NormalizeRecord(rec)
		if err != nil {
			invalid = append(invalid, invalidTransaction{Index: i, Reason: err.Error()})
			continue
		}
		rows = append(rows, store.RowFromCandidate(cand, store.DefaultUserID, ""))
	}

	if len(rows) > 0 {
		if err := h.repo.InsertTransactions(ctx, rows); err != nil {
			h.log.Error().Err(err).Int("rows", len(rows)).Msg("Failed to save transactions")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transactions")
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"savedCount":          len(rows),
		"invalidCount":        len(invalid),
		"invalidTransactions": invalid,
	})
}

// transactionResponse is the wire form of a persisted transaction.
type transactionResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Merchant    string  `json:"merchant,omitempty"`
}

// ListTransactions handles GET /api/transactions.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.repo.ListTransactions(ctx, defaultListLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(rows))
	for _, row := range rows {
		resp := transactionResponse{
			ID:          row.TransactionID,
			Date:        row.TransactionDate.String(),
			Description: row.Description,
			Amount:      row.AmountFloat(),
			Type:        row.Type,
			Category:    row.Category,
		}
		if row.Merchant.Valid {
			resp.Merchant = row.Merchant.StringVal
		}
		out = append(out, resp)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": out,
		"count":        len(out),
	})
}

// Summary handles GET /api/summary.
func (h *TransactionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	since := time.Now().AddDate(0, 0, -summaryWindowDays)
	summary, err := h.repo.Summarize(ctx, since)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, summary)
}
