package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialite/internal/httputil"
	"socialite/internal/model"
	"socialite/internal/service"
	"socialite/internal/transport/http/middleware"
	"socialite/pkg/logger"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 *logger.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log,
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": h.notificationService.List(r.Context(), caller),
		"unread_count":  h.notificationService.UnreadCount(r.Context(), caller),
	})
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), caller, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNotificationNotFound):
			httputil.WriteNotFound(w, "Notification not found")
		case errors.Is(err, model.ErrNotNotificationOwner):
			httputil.WriteForbidden(w, "Only the receiver may mark this notification read")
		default:
			h.log.WithError(err).Error("mark notification read failed")
			httputil.WriteInternalError(w, "Failed to mark notification read")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
