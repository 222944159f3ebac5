package gateway

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/social"
	"chat-relay/services"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// AgentHandler exposes the relay actions to the agent framework.
// Social routes are only mounted when a social service is given.
type AgentHandler struct {
	log    *slog.Logger
	relay  services.IRelayService
	social services.ISocialService
}

func NewAgentHandler(log *slog.Logger, relay services.IRelayService, social services.ISocialService) *AgentHandler {
	return &AgentHandler{log: log, relay: relay, social: social}
}

func (h *AgentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/agent", func(r chi.Router) {
		r.Post("/messages", h.handleSend)
		r.Get("/messages", h.handleRead)
		r.Get("/rooms", h.handleListRooms)
		r.Post("/rooms", h.handleJoinRoom)
		r.Get("/stats", h.handleStats)
		if h.social != nil {
			r.Get("/social/posts", h.handleFeed)
			r.Post("/social/posts", h.handlePublish)
			r.Post("/social/posts/{id}/comments", h.handleReply)
		}
	})
}

func (h *AgentHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var cmd domain.SendMessageCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	txRef, err := h.relay.SendMessage(r.Context(), cmd)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"tx": txRef})
}

func (h *AgentHandler) handleRead(w http.ResponseWriter, r *http.Request) {
	cmd := domain.ReadMessagesCommand{Room: r.URL.Query().Get("room"), Limit: parseLimit(r)}
	messages, err := h.relay.ReadMessages(r.Context(), cmd)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *AgentHandler) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"rooms": h.relay.ListRooms()})
}

func (h *AgentHandler) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	room, err := h.relay.JoinRoom(body.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"name": room.Name, "key": room.Key.String(), "table": room.TableAddress})
}

func (h *AgentHandler) handleStats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.relay.Stats())
}

func (h *AgentHandler) handleFeed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := h.social.Feed(r.Context(), r.URL.Query().Get("sort"), limit)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *AgentHandler) handlePublish(w http.ResponseWriter, r *http.Request) {
	var request social.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	post, err := h.social.Publish(r.Context(), request)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func (h *AgentHandler) handleReply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	comment, err := h.social.Reply(r.Context(), chi.URLParam(r, "id"), body.Content)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

func statusOf(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case stderrors.As(err, &validationErrors), stderrors.Is(err, errors.ErrEmptyContent),
		stderrors.Is(err, errors.ErrInvalidPayload):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrNotInitialized), stderrors.Is(err, errors.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
