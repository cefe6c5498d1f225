package handler

import (
	"net/http"

	"socialite/internal/httputil"
	"socialite/internal/service"
	"socialite/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// Get handles GET /feed
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.feedService.PersonalFeed(r.Context(), caller))
}
