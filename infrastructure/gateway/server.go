// Package gateway serves the relay read API over HTTP from a ledger:
// the primary message endpoint and the gateway rows endpoint.
package gateway

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/infrastructure/wire"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type rowResponse struct {
	TxRef     domain.TxRef `json:"tx"`
	Signer    string       `json:"signer"`
	WrittenAt time.Time    `json:"writtenAt"`
	Data      string       `json:"data"`
}

// Handler exposes a ledger through the HTTP read tiers.
type Handler struct {
	log         *slog.Logger
	ledger      contract.Ledger
	namespaceID string
}

func New(log *slog.Logger, ledger contract.Ledger, namespaceID string) *Handler {
	return &Handler{log: log, ledger: ledger, namespaceID: namespaceID}
}

// RegisterRoutes mounts the read endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/messages", h.handleMessages)
	r.Get("/table/{address}/rows", h.handleRows)
}

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMessages answers GET /messages?chatroom=<name>&limit=<n>
func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("chatroom")
	if name == "" {
		respondError(w, http.StatusBadRequest, "chatroom is required")
		return
	}
	room := domain.NewChatroom(name)
	address, err := h.ledger.DeriveTableAddress(h.namespaceID, room.Key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rows, err := h.ledger.ReadRows(r.Context(), address, parseLimit(r))
	if err != nil {
		h.log.Error("Failed to read rows", "room", name, "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		message, err := wire.DecodeMessage(row.Payload)
		if err != nil {
			continue
		}
		messages = append(messages, message.InRoom(room.Name))
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// handleRows answers GET /table/{address}/rows?limit=<n>
func (h *Handler) handleRows(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	rows, err := h.ledger.ReadRows(r.Context(), address, parseLimit(r))
	if err != nil {
		h.log.Error("Failed to read rows", "table", address, "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"rows": lo.Map(rows, func(row contract.Row, _ int) rowResponse {
			return rowResponse{TxRef: row.TxRef, Signer: row.Signer, WrittenAt: row.WrittenAt, Data: string(row.Payload)}
		}),
	})
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
