package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"socialite/internal/httputil"
	"socialite/internal/model"
	"socialite/internal/service"
	"socialite/internal/transport/http/middleware"
	"socialite/pkg/logger"
)

// maxMultipartMemory bounds how much of an upload is buffered in memory
// before spilling to disk.
const maxMultipartMemory = 16 << 20

type uploadFunc func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)

type MediaHandler struct {
	mediaService *service.MediaService
	log          *logger.Logger
}

func NewMediaHandler(mediaService *service.MediaService, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log,
	}
}

// UploadAvatar handles POST /media/avatar
func (h *MediaHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.mediaService.UploadAvatar)
}

// UploadPostImage handles POST /media/post
func (h *MediaHandler) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.mediaService.UploadPostImage)
}

func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request, fn uploadFunc) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteBadRequest(w, "Missing file field")
		return
	}
	defer file.Close()

	result, err := fn(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "File too large")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type")
		default:
			h.log.WithError(err).Error("media upload failed")
			httputil.WriteInternalError(w, "Failed to upload media")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
