package model

import (
	"errors"
	"time"
)

// Post represents a post in the global corpus. Ids come from a single 1-based
// monotonic sequence. A repost is a distinct Post carrying the original's
// content and media with RepostOf pointing at the source id; at most one
// repost exists per (author, original) pair.
type Post struct {
	ID        uint64        `json:"id"`
	Author    IdentityRef   `json:"author"`
	Content   string        `json:"content"`
	Image     *string       `json:"image,omitempty"`
	Video     *string       `json:"video,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Likes     []IdentityRef `json:"likes"`
	Comments  []Comment     `json:"comments"`
	RepostOf  *uint64       `json:"repost_of,omitempty"`
}

// IsRepost reports whether the post was created through the repost operation.
func (p *Post) IsRepost() bool { return p.RepostOf != nil }

// LikedBy reports whether the given identity is in the like set.
func (p *Post) LikedBy(id IdentityRef) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}

// CreatePostRequest is the request body for creating or editing a post.
// Content may be empty only when image or video is present.
type CreatePostRequest struct {
	Content string  `json:"content"`
	Image   *string `json:"image,omitempty"`
	Video   *string `json:"video,omitempty"`
}

var (
	// ErrEmptyPost is returned when a post has no content, image, or video
	ErrEmptyPost = errors.New("post must have content, image, or video")

	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrNotPostAuthor is returned when a non-author edits or deletes a post
	ErrNotPostAuthor = errors.New("only the author may modify this post")

	// ErrAlreadyReposted is returned on a second repost of the same post
	ErrAlreadyReposted = errors.New("post already reposted")
)
