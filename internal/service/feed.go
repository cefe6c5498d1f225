package service

import (
	"context"

	"socialite/internal/model"
	"socialite/internal/store"
)

// Feed fallback constants. When a viewer's personal feed has fewer than
// feedFallbackThreshold posts, up to feedFallbackPad posts from the whole
// corpus (ascending id order) are mixed in so cold-start users see something.
// The thresholds are product behavior, not tuning knobs.
const (
	feedFallbackThreshold = 10
	feedFallbackPad       = 20
)

// FeedService derives read views from the user and post stores. It holds no
// state of its own.
type FeedService struct {
	posts *store.PostStore
	users *store.UserStore
}

func NewFeedService(posts *store.PostStore, users *store.UserStore) *FeedService {
	return &FeedService{
		posts: posts,
		users: users,
	}
}

// PersonalFeed returns posts authored by the viewer or anyone they follow,
// padded from the corpus when thin, deduplicated by id, newest first.
func (s *FeedService) PersonalFeed(ctx context.Context, viewer model.IdentityRef) []model.Post {
	authors := map[model.IdentityRef]bool{viewer: true}
	for _, id := range s.users.Following(viewer) {
		authors[id] = true
	}

	var feed []model.Post
	for _, p := range s.posts.List() {
		if authors[p.Author] {
			feed = append(feed, p)
		}
	}

	if len(feed) < feedFallbackThreshold {
		feed = append(feed, s.posts.ListOldest(feedFallbackPad)...)
	}

	feed = dedupeByID(feed)
	store.SortNewestFirst(feed)
	return feed
}

func dedupeByID(posts []model.Post) []model.Post {
	seen := make(map[uint64]bool, len(posts))
	out := posts[:0]
	for _, p := range posts {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
