package service

import (
	"context"
	"errors"
	"testing"

	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

func newPostFixture() (*PostService, *store.UserStore, *mockNotifier) {
	users := store.NewUserStore(testClock())
	posts := store.NewPostStore(testClock())
	notifier := &mockNotifier{}
	return NewPostService(posts, users, notifier, logger.NewNopLogger()), users, notifier
}

func registerUsers(t *testing.T, users *store.UserStore, ids ...model.IdentityRef) {
	t.Helper()
	for _, id := range ids {
		if _, err := users.Create(id, string(id), "", "", ""); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc, users, _ := newPostFixture()
	registerUsers(t, users, "alice")
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", model.CreatePostRequest{Content: "   "})
	if !errors.Is(err, model.ErrEmptyPost) {
		t.Errorf("expected ErrEmptyPost, got %v", err)
	}

	// Image alone is enough
	img := "http://cdn/img.jpg"
	if _, err := svc.Create(ctx, "alice", model.CreatePostRequest{Image: &img}); err != nil {
		t.Errorf("image-only post failed: %v", err)
	}

	_, err = svc.Create(ctx, "ghost", model.CreatePostRequest{Content: "hi"})
	if !errors.Is(err, model.ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func TestPostService_Like_NotifiesOnlyOnAdd(t *testing.T) {
	svc, users, notifier := newPostFixture()
	registerUsers(t, users, "alice", "bob")
	ctx := context.Background()

	post, err := svc.Create(ctx, "alice", model.CreatePostRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	liked, err := svc.Like(ctx, "bob", post.ID)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if len(liked.Likes) != 1 {
		t.Errorf("expected 1 like, got %d", len(liked.Likes))
	}

	// Unlike removes and stays silent
	unliked, err := svc.Like(ctx, "bob", post.ID)
	if err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if len(unliked.Likes) != 0 {
		t.Errorf("expected like removed, got %v", unliked.Likes)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	if notifier.calls[0].Kind != model.NotificationLike || notifier.calls[0].Receiver != "alice" {
		t.Errorf("unexpected notification: %+v", notifier.calls[0])
	}
}

func TestPostService_Like_OwnPostStaysSilent(t *testing.T) {
	svc, users, notifier := newPostFixture()
	registerUsers(t, users, "alice")
	ctx := context.Background()

	post, _ := svc.Create(ctx, "alice", model.CreatePostRequest{Content: "hello"})
	if _, err := svc.Like(ctx, "alice", post.ID); err != nil {
		t.Fatalf("self-like failed: %v", err)
	}

	if len(notifier.calls) != 0 {
		t.Errorf("self-like must not notify, got %d calls", len(notifier.calls))
	}
}

func TestPostService_Comment(t *testing.T) {
	svc, users, notifier := newPostFixture()
	registerUsers(t, users, "alice", "bob")
	ctx := context.Background()

	post, _ := svc.Create(ctx, "alice", model.CreatePostRequest{Content: "hello"})

	if _, err := svc.Comment(ctx, "bob", post.ID, "  "); !errors.Is(err, model.ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}

	comment, err := svc.Comment(ctx, "bob", post.ID, "nice one")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	if comment.Author != "bob" {
		t.Errorf("expected comment author bob, got %s", comment.Author)
	}

	// Commenting on your own post is silent
	if _, err := svc.Comment(ctx, "alice", post.ID, "thanks"); err != nil {
		t.Fatalf("self-comment failed: %v", err)
	}

	if len(notifier.calls) != 1 || notifier.calls[0].Kind != model.NotificationComment {
		t.Errorf("expected one comment notification, got %+v", notifier.calls)
	}
}

func TestPostService_Repost(t *testing.T) {
	svc, users, notifier := newPostFixture()
	registerUsers(t, users, "alice", "bob")
	ctx := context.Background()

	post, _ := svc.Create(ctx, "alice", model.CreatePostRequest{Content: "hello"})

	repost, err := svc.Repost(ctx, "bob", post.ID)
	if err != nil {
		t.Fatalf("repost failed: %v", err)
	}
	if repost.RepostOf == nil || *repost.RepostOf != post.ID {
		t.Error("expected repost to reference original")
	}

	if _, err := svc.Repost(ctx, "bob", post.ID); !errors.Is(err, model.ErrAlreadyReposted) {
		t.Errorf("expected ErrAlreadyReposted, got %v", err)
	}

	if len(notifier.calls) != 1 || notifier.calls[0].Kind != model.NotificationRepost {
		t.Errorf("expected one repost notification, got %+v", notifier.calls)
	}
}

func TestPostService_EditAndDelete_AuthorOnly(t *testing.T) {
	svc, users, _ := newPostFixture()
	registerUsers(t, users, "alice", "bob")
	ctx := context.Background()

	post, _ := svc.Create(ctx, "alice", model.CreatePostRequest{Content: "before"})

	if _, err := svc.Edit(ctx, "bob", post.ID, model.CreatePostRequest{Content: "hijack"}); !errors.Is(err, model.ErrNotPostAuthor) {
		t.Errorf("expected ErrNotPostAuthor, got %v", err)
	}
	if err := svc.Delete(ctx, "bob", post.ID); !errors.Is(err, model.ErrNotPostAuthor) {
		t.Errorf("expected ErrNotPostAuthor, got %v", err)
	}

	edited, err := svc.Edit(ctx, "alice", post.ID, model.CreatePostRequest{Content: "after"})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Content != "after" {
		t.Errorf("expected edited content, got %q", edited.Content)
	}

	if err := svc.Delete(ctx, "alice", post.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, post.ID); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound after delete, got %v", err)
	}
}
