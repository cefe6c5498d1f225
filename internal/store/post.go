package store

import (
	"sort"
	"sync"

	"socialite/internal/model"
)

// PostStore owns posts, their comments, and their like sets. Post and comment
// ids come from two store-owned monotonic sequences; snapshots persist the
// counters so restored stores never reuse an id.
type PostStore struct {
	mu         sync.RWMutex
	posts      map[uint64]*model.Post
	postSeq    uint64
	commentSeq uint64
	clock      Clock
}

func NewPostStore(clock Clock) *PostStore {
	return &PostStore{
		posts: make(map[uint64]*model.Post),
		clock: clock,
	}
}

// Create inserts a new post with a fresh id. Validation happens in the
// service layer; the store accepts whatever it is handed.
func (s *PostStore) Create(author model.IdentityRef, content string, image, video *string) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postSeq++
	p := &model.Post{
		ID:        s.postSeq,
		Author:    author,
		Content:   content,
		Image:     image,
		Video:     video,
		CreatedAt: s.clock(),
		Likes:     []model.IdentityRef{},
		Comments:  []model.Comment{},
	}
	s.posts[p.ID] = p
	return *clonePost(p)
}

// Get returns a copy of the post, or false if the id is unknown.
func (s *PostStore) Get(id uint64) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return model.Post{}, false
	}
	return *clonePost(p), true
}

// List returns every post, newest first: created_at descending with id
// descending breaking ties.
func (s *PostStore) List() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *clonePost(p))
	}
	SortNewestFirst(out)
	return out
}

// ListByAuthor returns the author's posts, newest first.
func (s *PostStore) ListByAuthor(author model.IdentityRef) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Post{}
	for _, p := range s.posts {
		if p.Author == author {
			out = append(out, *clonePost(p))
		}
	}
	SortNewestFirst(out)
	return out
}

// ListOldest returns up to limit posts in ascending id order. The feed
// fallback draws its padding from here so the selection stays deterministic.
func (s *PostStore) ListOldest(limit int) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if limit > len(ids) {
		limit = len(ids)
	}
	out := make([]model.Post, 0, limit)
	for _, id := range ids[:limit] {
		out = append(out, *clonePost(s.posts[id]))
	}
	return out
}

// ToggleLike adds the actor to the like set, or removes them if already
// present. The second return value reports whether a like was added.
func (s *PostStore) ToggleLike(id uint64, actor model.IdentityRef) (model.Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return model.Post{}, false, model.ErrPostNotFound
	}

	if containsIdentity(p.Likes, actor) {
		p.Likes = removeIdentity(p.Likes, actor)
		return *clonePost(p), false, nil
	}
	p.Likes = append(p.Likes, actor)
	return *clonePost(p), true, nil
}

// AddComment appends a comment with a fresh id and returns it along with the
// post's author, which the caller needs for notification fan-out.
func (s *PostStore) AddComment(id uint64, author model.IdentityRef, content string) (model.Comment, model.IdentityRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return model.Comment{}, "", model.ErrPostNotFound
	}

	s.commentSeq++
	c := model.Comment{
		ID:        s.commentSeq,
		Author:    author,
		Content:   content,
		CreatedAt: s.clock(),
	}
	p.Comments = append(p.Comments, c)
	return c, p.Author, nil
}

// CreateRepost creates a distinct post carrying the original's content and
// media, rejecting a second repost of the same id by the same actor. The
// original's author is returned for notification fan-out.
func (s *PostStore) CreateRepost(actor model.IdentityRef, originalID uint64) (model.Post, model.IdentityRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orig, ok := s.posts[originalID]
	if !ok {
		return model.Post{}, "", model.ErrPostNotFound
	}

	for _, p := range s.posts {
		if p.Author == actor && p.RepostOf != nil && *p.RepostOf == originalID {
			return model.Post{}, "", model.ErrAlreadyReposted
		}
	}

	s.postSeq++
	ref := originalID
	repost := &model.Post{
		ID:        s.postSeq,
		Author:    actor,
		Content:   orig.Content,
		Image:     copyOptional(orig.Image),
		Video:     copyOptional(orig.Video),
		CreatedAt: s.clock(),
		Likes:     []model.IdentityRef{},
		Comments:  []model.Comment{},
		RepostOf:  &ref,
	}
	s.posts[repost.ID] = repost
	return *clonePost(repost), orig.Author, nil
}

// Update overwrites content, image, and video. Id, author, created_at, likes,
// and comments are untouched. Only the author may edit.
func (s *PostStore) Update(id uint64, actor model.IdentityRef, content string, image, video *string) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	if p.Author != actor {
		return model.Post{}, model.ErrNotPostAuthor
	}

	p.Content = content
	p.Image = image
	p.Video = video
	return *clonePost(p), nil
}

// Delete removes the post and cascades to every post reposting it,
// recursively, so no dangling RepostOf reference survives. Only the author
// may delete.
func (s *PostStore) Delete(id uint64, actor model.IdentityRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return model.ErrPostNotFound
	}
	if p.Author != actor {
		return model.ErrNotPostAuthor
	}

	s.deleteCascade(id)
	return nil
}

func (s *PostStore) deleteCascade(id uint64) {
	delete(s.posts, id)

	var reposts []uint64
	for rid, p := range s.posts {
		if p.RepostOf != nil && *p.RepostOf == id {
			reposts = append(reposts, rid)
		}
	}
	for _, rid := range reposts {
		s.deleteCascade(rid)
	}
}

// Snapshot returns every post plus the two sequence counters for archival.
func (s *PostStore) Snapshot() ([]model.Post, uint64, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.postSeq, s.commentSeq
}

// Restore replaces all state. The counters are bumped to at least the highest
// restored id so ids are never reused, even against a stale counter row.
func (s *PostStore) Restore(posts []model.Post, postSeq, commentSeq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = make(map[uint64]*model.Post, len(posts))
	s.postSeq = postSeq
	s.commentSeq = commentSeq
	for i := range posts {
		p := clonePost(&posts[i])
		s.posts[p.ID] = p
		if p.ID > s.postSeq {
			s.postSeq = p.ID
		}
		for _, c := range p.Comments {
			if c.ID > s.commentSeq {
				s.commentSeq = c.ID
			}
		}
	}
}

// SortNewestFirst orders posts by created_at descending, breaking equal
// timestamps by id descending so the ordering is total.
func SortNewestFirst(posts []model.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Image = copyOptional(p.Image)
	c.Video = copyOptional(p.Video)
	c.Likes = append([]model.IdentityRef{}, p.Likes...)
	c.Comments = append([]model.Comment{}, p.Comments...)
	if p.RepostOf != nil {
		ref := *p.RepostOf
		c.RepostOf = &ref
	}
	return &c
}

func copyOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
