package service

import (
	"context"
	"strings"

	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

// PostService implements post lifecycle and engagement: create, read, like
// toggling, comments, reposts, edits, and cascading deletes.
type PostService struct {
	posts    *store.PostStore
	users    *store.UserStore
	notifier Notifier
	log      *logger.Logger
}

func NewPostService(posts *store.PostStore, users *store.UserStore, notifier Notifier, log *logger.Logger) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// Create makes a new post. A post needs trimmed content, an image, or a
// video, and a registered author.
func (s *PostService) Create(ctx context.Context, author model.IdentityRef, req model.CreatePostRequest) (*model.Post, error) {
	if err := validatePostBody(req); err != nil {
		return nil, err
	}
	if !s.users.Exists(author) {
		return nil, model.ErrNotRegistered
	}

	post := s.posts.Create(author, req.Content, req.Image, req.Video)

	s.log.WithFields(map[string]interface{}{
		"post":   post.ID,
		"author": author.String(),
	}).Info("Created post")

	return &post, nil
}

// GetAll returns the whole corpus, newest first.
func (s *PostService) GetAll(ctx context.Context) []model.Post {
	return s.posts.List()
}

// GetByAuthor returns one author's posts, newest first. Unknown authors
// simply have no posts.
func (s *PostService) GetByAuthor(ctx context.Context, author model.IdentityRef) []model.Post {
	return s.posts.ListByAuthor(author)
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id uint64) (*model.Post, error) {
	post, ok := s.posts.Get(id)
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return &post, nil
}

// Like toggles the actor's like on the post. Adding a like to someone else's
// post notifies the author; removing one never does.
func (s *PostService) Like(ctx context.Context, actor model.IdentityRef, postID uint64) (*model.Post, error) {
	post, liked, err := s.posts.ToggleLike(postID, actor)
	if err != nil {
		return nil, err
	}

	if liked && post.Author != actor {
		if _, err := s.notifier.Notify(ctx, actor, post.Author, model.NotificationLike, "liked your post"); err != nil {
			s.log.WithError(err).WithField("post", postID).Error("Failed to notify like")
		}
	}

	return &post, nil
}

// Comment appends a comment and notifies the post's author when the
// commenter is someone else.
func (s *PostService) Comment(ctx context.Context, actor model.IdentityRef, postID uint64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ErrEmptyComment
	}

	comment, author, err := s.posts.AddComment(postID, actor, content)
	if err != nil {
		return nil, err
	}

	if author != actor {
		if _, err := s.notifier.Notify(ctx, actor, author, model.NotificationComment, "commented on your post"); err != nil {
			s.log.WithError(err).WithField("post", postID).Error("Failed to notify comment")
		}
	}

	return &comment, nil
}

// Repost creates a distinct post referencing the original. One repost per
// (actor, original) pair; reposting someone else's post notifies them.
func (s *PostService) Repost(ctx context.Context, actor model.IdentityRef, postID uint64) (*model.Post, error) {
	repost, originalAuthor, err := s.posts.CreateRepost(actor, postID)
	if err != nil {
		return nil, err
	}

	if originalAuthor != actor {
		if _, err := s.notifier.Notify(ctx, actor, originalAuthor, model.NotificationRepost, "reposted your post"); err != nil {
			s.log.WithError(err).WithField("post", postID).Error("Failed to notify repost")
		}
	}

	return &repost, nil
}

// Edit overwrites content and media. Author-only; likes, comments, id, and
// created_at are untouched.
func (s *PostService) Edit(ctx context.Context, actor model.IdentityRef, postID uint64, req model.CreatePostRequest) (*model.Post, error) {
	if err := validatePostBody(req); err != nil {
		return nil, err
	}

	post, err := s.posts.Update(postID, actor, req.Content, req.Image, req.Video)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes the post and every repost of it. Author-only.
func (s *PostService) Delete(ctx context.Context, actor model.IdentityRef, postID uint64) error {
	if err := s.posts.Delete(postID, actor); err != nil {
		return err
	}

	s.log.WithFields(map[string]interface{}{
		"post":   postID,
		"author": actor.String(),
	}).Info("Deleted post")

	return nil
}

func validatePostBody(req model.CreatePostRequest) error {
	if strings.TrimSpace(req.Content) == "" && req.Image == nil && req.Video == nil {
		return model.ErrEmptyPost
	}
	return nil
}
