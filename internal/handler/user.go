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

type UserHandler struct {
	userService *service.UserService
	log         *logger.Logger
}

func NewUserHandler(userService *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), caller)
	if err != nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /me/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), caller, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNameRequired):
			httputil.WriteBadRequest(w, "Name cannot be empty")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			h.log.WithError(err).Error("update profile failed")
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.userService.ListUsers(r.Context()))
}

// Search handles GET /users/search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	httputil.WriteJSON(w, http.StatusOK, h.userService.Search(r.Context(), query))
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.IdentityRef(chi.URLParam(r, "id"))

	profile, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Followers handles GET /users/{id}/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	id := model.IdentityRef(chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, h.userService.Followers(r.Context(), id))
}

// Following handles GET /users/{id}/following
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	id := model.IdentityRef(chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, h.userService.Following(r.Context(), id))
}

// Follow handles POST /users/{id}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	target := model.IdentityRef(chi.URLParam(r, "id"))

	if err := h.userService.Follow(r.Context(), caller, target); err != nil {
		switch {
		case errors.Is(err, model.ErrSelfFollow):
			httputil.WriteBadRequest(w, "Cannot follow yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrNotRegistered):
			httputil.WriteForbidden(w, "Caller is not registered")
		default:
			h.log.WithError(err).Error("follow failed")
			httputil.WriteInternalError(w, "Failed to follow")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unfollow handles DELETE /users/{id}/follow
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	target := model.IdentityRef(chi.URLParam(r, "id"))

	if err := h.userService.Unfollow(r.Context(), caller, target); err != nil {
		h.log.WithError(err).Error("unfollow failed")
		httputil.WriteInternalError(w, "Failed to unfollow")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
