package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialite/internal/httputil"
	"socialite/internal/model"
	"socialite/internal/service"
	"socialite/internal/transport/http/middleware"
	"socialite/pkg/logger"
)

type MessageHandler struct {
	messageService *service.MessageService
	log            *logger.Logger
}

func NewMessageHandler(messageService *service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		log:            log,
	}
}

// Inbox handles GET /inbox
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.messageService.Inbox(r.Context(), caller))
}

// Conversation handles GET /messages/{peer}
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	peer := model.IdentityRef(chi.URLParam(r, "peer"))

	httputil.WriteJSON(w, http.StatusOK, h.messageService.Conversation(r.Context(), caller, peer))
}

// Send handles POST /messages/{peer}
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	peer := model.IdentityRef(chi.URLParam(r, "peer"))

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(r.Context(), caller, peer, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyMessage):
			httputil.WriteBadRequest(w, "Message cannot be empty")
		case errors.Is(err, model.ErrSenderNotRegistered):
			httputil.WriteForbidden(w, "Sender is not registered")
		case errors.Is(err, model.ErrReceiverNotFound):
			httputil.WriteNotFound(w, "Receiver not found")
		case errors.Is(err, model.ErrMessagingNotAllowed):
			httputil.WriteForbidden(w, "Messaging requires a follow in either direction")
		default:
			h.log.WithError(err).Error("send message failed")
			httputil.WriteInternalError(w, "Failed to send message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, msg)
}

// MarkSeen handles POST /messages/{peer}/seen
func (h *MessageHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	peer := model.IdentityRef(chi.URLParam(r, "peer"))

	var req model.MarkSeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.messageService.MarkSeen(r.Context(), caller, peer, req.LastID); err != nil {
		if errors.Is(err, model.ErrNoConversation) {
			httputil.WriteNotFound(w, "No conversation with this user")
			return
		}
		h.log.WithError(err).Error("mark seen failed")
		httputil.WriteInternalError(w, "Failed to mark messages seen")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Allowed handles GET /messages/{peer}/allowed
func (h *MessageHandler) Allowed(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	peer := model.IdentityRef(chi.URLParam(r, "peer"))

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{
		"allowed": h.messageService.CanMessage(r.Context(), caller, peer),
	})
}
