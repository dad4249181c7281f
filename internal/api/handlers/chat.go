package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmelikhov/finbuddy/internal/api/middleware"
	"github.com/dmelikhov/finbuddy/internal/extract"
	"github.com/dmelikhov/finbuddy/internal/logger"
	"github.com/dmelikhov/finbuddy/internal/store"
)

// ChatHandler answers free-form questions about the user's finances,
// grounding the model on a summary of recent transactions. It logs
// through the request-scoped logger injected by the RequestID
// middleware, so chat failures carry a request_id.
type ChatHandler struct {
	svc  *extract.Service
	repo store.TransactionRepository
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *extract.Service, repo store.TransactionRepository) *ChatHandler {
	return &ChatHandler{
		svc:  svc,
		repo: repo,
	}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	since := time.Now().AddDate(0, 0, -summaryWindowDays)
	summary, err := h.repo.Summarize(ctx, since)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load summary for chat")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load financial data")
		return
	}

	reply, err := h.svc.Advise(ctx, *summary, req.Message)
	if err != nil {
		if extract.IsCode(err, extract.CodeModelUnavailable) {
			middleware.WriteError(w, http.StatusServiceUnavailable, "AI advice is currently unavailable")
			return
		}
		log.Error().Err(err).Msg("Chat request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to answer the question")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"reply": reply,
	})
}
