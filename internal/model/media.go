package model

import "errors"

// Upload limits and normalization targets for media handling.
const (
	MaxAvatarSizeBytes    int64 = 5 * 1024 * 1024
	MaxPostImageSizeBytes int64 = 10 * 1024 * 1024

	AvatarWidth  = 200
	AvatarHeight = 200

	// PostImageMaxDimension bounds the longest side of a post image.
	PostImageMaxDimension = 1080

	AvatarFolder    = "avatars"
	PostImageFolder = "posts"

	AvatarExt       = ".jpg"
	ContentTypeJPEG = "image/jpeg"

	AvatarCacheControl = "public, max-age=31536000, immutable"
)

// UploadResult is returned after a successful media upload. URL is the public
// address callers store in profile and post image fields; Key is the object
// key inside the bucket.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports whether the content type may be uploaded.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidImageType is returned for uploads that are not images
	ErrInvalidImageType = errors.New("invalid image type")
)
