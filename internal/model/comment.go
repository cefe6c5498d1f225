package model

import (
	"errors"
	"time"
)

// Comment is owned by exactly one post and lives and dies with it. Ids come
// from their own global monotonic sequence so they are unique across posts.
type Comment struct {
	ID        uint64      `json:"id"`
	Author    IdentityRef `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// CommentRequest is the request body for commenting on a post.
type CommentRequest struct {
	Content string `json:"content"`
}

// ErrEmptyComment is returned when a comment is empty after trimming
var ErrEmptyComment = errors.New("comment cannot be empty")
