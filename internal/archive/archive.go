package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialite/internal/model"
	"socialite/pkg/logger"
)

// Archive persists the complete in-memory state to Postgres so the service
// can come back after a restart with everything intact. The in-memory stores
// stay authoritative while running; the archive is written whole on each
// save and read whole on startup.
type Archive struct {
	db  *sqlx.DB
	log *logger.Logger
}

// State is everything the stores need to rebuild themselves.
type State struct {
	Profiles        []model.Profile
	Posts           []model.Post
	PostSeq         uint64
	CommentSeq      uint64
	Messages        []model.Message
	MessageSeq      uint64
	Notifications   []model.Notification
	NotificationSeq uint64
	Credentials     []model.Credential
}

func New(db *sqlx.DB, log *logger.Logger) *Archive {
	return &Archive{db: db, log: log}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS social_users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		bio           TEXT NOT NULL DEFAULT '',
		profile_image TEXT NOT NULL DEFAULT '',
		cover_image   TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		position      INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS social_follows (
		follower TEXT NOT NULL,
		followee TEXT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (follower, followee)
	)`,
	`CREATE TABLE IF NOT EXISTS social_posts (
		id         BIGINT PRIMARY KEY,
		author     TEXT NOT NULL,
		content    TEXT NOT NULL,
		image      TEXT,
		video      TEXT,
		repost_of  BIGINT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS social_likes (
		post_id  BIGINT NOT NULL,
		user_id  TEXT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS social_comments (
		id         BIGINT PRIMARY KEY,
		post_id    BIGINT NOT NULL,
		author     TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS social_messages (
		id         BIGINT PRIMARY KEY,
		sender     TEXT NOT NULL,
		receiver   TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		seen       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS social_notifications (
		id         BIGINT PRIMARY KEY,
		sender     TEXT NOT NULL,
		receiver   TEXT NOT NULL,
		kind       TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		read       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS social_credentials (
		username      TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS social_counters (
		name  TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	)`,
}

// EnsureSchema creates the archive tables if they don't exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create archive schema: %w", err)
		}
	}
	return nil
}

// Save replaces the archived state with the given snapshot in one
// transaction. Readers never see a half-written archive.
func (a *Archive) Save(ctx context.Context, st State) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	tables := []string{
		"social_users", "social_follows", "social_posts", "social_likes",
		"social_comments", "social_messages", "social_notifications",
		"social_credentials", "social_counters",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := a.saveUsers(ctx, tx, st.Profiles); err != nil {
		return err
	}
	if err := a.savePosts(ctx, tx, st.Posts); err != nil {
		return err
	}
	if err := a.saveMessages(ctx, tx, st.Messages); err != nil {
		return err
	}
	if err := a.saveNotifications(ctx, tx, st.Notifications); err != nil {
		return err
	}
	if err := a.saveCredentials(ctx, tx, st.Credentials); err != nil {
		return err
	}

	counters := map[string]uint64{
		"post_seq":         st.PostSeq,
		"comment_seq":      st.CommentSeq,
		"message_seq":      st.MessageSeq,
		"notification_seq": st.NotificationSeq,
	}
	for name, value := range counters {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_counters (name, value) VALUES ($1, $2)`, name, int64(value))
		if err != nil {
			return fmt.Errorf("save counter %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	a.log.WithFields(map[string]interface{}{
		"users":         len(st.Profiles),
		"posts":         len(st.Posts),
		"messages":      len(st.Messages),
		"notifications": len(st.Notifications),
	}).Info("state archived")
	return nil
}

func (a *Archive) saveUsers(ctx context.Context, tx *sqlx.Tx, profiles []model.Profile) error {
	followPos := 0
	for pos, p := range profiles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_users (id, name, bio, profile_image, cover_image, created_at, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID.String(), p.Name, p.Bio, p.ProfileImage, p.CoverImage, p.CreatedAt, pos)
		if err != nil {
			return fmt.Errorf("save user %s: %w", p.ID, err)
		}
		// Follow edges are written from the Following side only; the
		// Followers lists are the mirror image and get rebuilt on load.
		for _, followee := range p.Following {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO social_follows (follower, followee, position) VALUES ($1, $2, $3)`,
				p.ID.String(), followee.String(), followPos)
			if err != nil {
				return fmt.Errorf("save follow %s -> %s: %w", p.ID, followee, err)
			}
			followPos++
		}
	}
	return nil
}

func (a *Archive) savePosts(ctx context.Context, tx *sqlx.Tx, posts []model.Post) error {
	for _, p := range posts {
		var repostOf interface{}
		if p.RepostOf != nil {
			repostOf = int64(*p.RepostOf)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_posts (id, author, content, image, video, repost_of, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			int64(p.ID), p.Author.String(), p.Content, p.Image, p.Video, repostOf, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("save post %d: %w", p.ID, err)
		}
		for pos, liker := range p.Likes {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO social_likes (post_id, user_id, position) VALUES ($1, $2, $3)`,
				int64(p.ID), liker.String(), pos)
			if err != nil {
				return fmt.Errorf("save like on post %d: %w", p.ID, err)
			}
		}
		for _, c := range p.Comments {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO social_comments (id, post_id, author, content, created_at)
				 VALUES ($1, $2, $3, $4, $5)`,
				int64(c.ID), int64(p.ID), c.Author.String(), c.Content, c.CreatedAt)
			if err != nil {
				return fmt.Errorf("save comment %d: %w", c.ID, err)
			}
		}
	}
	return nil
}

func (a *Archive) saveMessages(ctx context.Context, tx *sqlx.Tx, messages []model.Message) error {
	for _, m := range messages {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_messages (id, sender, receiver, content, created_at, seen)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			int64(m.ID), m.From.String(), m.To.String(), m.Content, m.CreatedAt, m.Seen)
		if err != nil {
			return fmt.Errorf("save message %d: %w", m.ID, err)
		}
	}
	return nil
}

func (a *Archive) saveNotifications(ctx context.Context, tx *sqlx.Tx, notifications []model.Notification) error {
	for _, n := range notifications {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_notifications (id, sender, receiver, kind, message, created_at, read)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			int64(n.ID), n.Sender.String(), n.Receiver.String(), string(n.Kind), n.Message, n.CreatedAt, n.Read)
		if err != nil {
			return fmt.Errorf("save notification %d: %w", n.ID, err)
		}
	}
	return nil
}

func (a *Archive) saveCredentials(ctx context.Context, tx *sqlx.Tx, creds []model.Credential) error {
	for _, c := range creds {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_credentials (username, user_id, password_hash, created_at)
			 VALUES ($1, $2, $3, $4)`,
			c.Username, c.UserID.String(), c.PasswordHash, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("save credential %s: %w", c.Username, err)
		}
	}
	return nil
}

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Bio          string    `db:"bio"`
	ProfileImage string    `db:"profile_image"`
	CoverImage   string    `db:"cover_image"`
	CreatedAt    time.Time `db:"created_at"`
	Position     int       `db:"position"`
}

type followRow struct {
	Follower string `db:"follower"`
	Followee string `db:"followee"`
	Position int    `db:"position"`
}

type postRow struct {
	ID        int64     `db:"id"`
	Author    string    `db:"author"`
	Content   string    `db:"content"`
	Image     *string   `db:"image"`
	Video     *string   `db:"video"`
	RepostOf  *int64    `db:"repost_of"`
	CreatedAt time.Time `db:"created_at"`
}

type likeRow struct {
	PostID   int64  `db:"post_id"`
	UserID   string `db:"user_id"`
	Position int    `db:"position"`
}

type commentRow struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	Author    string    `db:"author"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

type messageRow struct {
	ID        int64     `db:"id"`
	Sender    string    `db:"sender"`
	Receiver  string    `db:"receiver"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	Seen      bool      `db:"seen"`
}

type notificationRow struct {
	ID        int64     `db:"id"`
	Sender    string    `db:"sender"`
	Receiver  string    `db:"receiver"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
	Read      bool      `db:"read"`
}

type credentialRow struct {
	Username     string    `db:"username"`
	UserID       string    `db:"user_id"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type counterRow struct {
	Name  string `db:"name"`
	Value int64  `db:"value"`
}

// Load reads the archived state back. An empty archive yields a zero State,
// which restores the stores to empty.
func (a *Archive) Load(ctx context.Context) (*State, error) {
	st := &State{}

	if err := a.loadUsers(ctx, st); err != nil {
		return nil, err
	}
	if err := a.loadPosts(ctx, st); err != nil {
		return nil, err
	}

	var messageRows []messageRow
	if err := a.db.SelectContext(ctx, &messageRows,
		`SELECT id, sender, receiver, content, created_at, seen FROM social_messages ORDER BY id`); err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	for _, r := range messageRows {
		st.Messages = append(st.Messages, model.Message{
			ID:        uint64(r.ID),
			From:      model.IdentityRef(r.Sender),
			To:        model.IdentityRef(r.Receiver),
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			Seen:      r.Seen,
		})
	}

	var notifRows []notificationRow
	if err := a.db.SelectContext(ctx, &notifRows,
		`SELECT id, sender, receiver, kind, message, created_at, read FROM social_notifications ORDER BY id`); err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	for _, r := range notifRows {
		st.Notifications = append(st.Notifications, model.Notification{
			ID:        uint64(r.ID),
			Sender:    model.IdentityRef(r.Sender),
			Receiver:  model.IdentityRef(r.Receiver),
			Kind:      model.NotificationKind(r.Kind),
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
			Read:      r.Read,
		})
	}

	var credRows []credentialRow
	if err := a.db.SelectContext(ctx, &credRows,
		`SELECT username, user_id, password_hash, created_at FROM social_credentials ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	for _, r := range credRows {
		st.Credentials = append(st.Credentials, model.Credential{
			Username:     r.Username,
			UserID:       model.IdentityRef(r.UserID),
			PasswordHash: r.PasswordHash,
			CreatedAt:    r.CreatedAt,
		})
	}

	var counterRows []counterRow
	if err := a.db.SelectContext(ctx, &counterRows,
		`SELECT name, value FROM social_counters`); err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	for _, r := range counterRows {
		switch r.Name {
		case "post_seq":
			st.PostSeq = uint64(r.Value)
		case "comment_seq":
			st.CommentSeq = uint64(r.Value)
		case "message_seq":
			st.MessageSeq = uint64(r.Value)
		case "notification_seq":
			st.NotificationSeq = uint64(r.Value)
		}
	}

	return st, nil
}

func (a *Archive) loadUsers(ctx context.Context, st *State) error {
	var userRows []userRow
	if err := a.db.SelectContext(ctx, &userRows,
		`SELECT id, name, bio, profile_image, cover_image, created_at, position
		 FROM social_users ORDER BY position`); err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	index := make(map[model.IdentityRef]int, len(userRows))
	for i, r := range userRows {
		id := model.IdentityRef(r.ID)
		st.Profiles = append(st.Profiles, model.Profile{
			ID:           id,
			Name:         r.Name,
			Bio:          r.Bio,
			ProfileImage: r.ProfileImage,
			CoverImage:   r.CoverImage,
			Followers:    []model.IdentityRef{},
			Following:    []model.IdentityRef{},
			CreatedAt:    r.CreatedAt,
		})
		index[id] = i
	}

	var followRows []followRow
	if err := a.db.SelectContext(ctx, &followRows,
		`SELECT follower, followee, position FROM social_follows ORDER BY position`); err != nil {
		return fmt.Errorf("load follows: %w", err)
	}
	for _, r := range followRows {
		follower := model.IdentityRef(r.Follower)
		followee := model.IdentityRef(r.Followee)
		fi, ok1 := index[follower]
		ti, ok2 := index[followee]
		if !ok1 || !ok2 {
			continue
		}
		st.Profiles[fi].Following = append(st.Profiles[fi].Following, followee)
		st.Profiles[ti].Followers = append(st.Profiles[ti].Followers, follower)
	}
	return nil
}

func (a *Archive) loadPosts(ctx context.Context, st *State) error {
	var postRows []postRow
	if err := a.db.SelectContext(ctx, &postRows,
		`SELECT id, author, content, image, video, repost_of, created_at
		 FROM social_posts ORDER BY id`); err != nil {
		return fmt.Errorf("load posts: %w", err)
	}

	index := make(map[int64]int, len(postRows))
	for i, r := range postRows {
		var repostOf *uint64
		if r.RepostOf != nil {
			v := uint64(*r.RepostOf)
			repostOf = &v
		}
		st.Posts = append(st.Posts, model.Post{
			ID:        uint64(r.ID),
			Author:    model.IdentityRef(r.Author),
			Content:   r.Content,
			Image:     r.Image,
			Video:     r.Video,
			RepostOf:  repostOf,
			CreatedAt: r.CreatedAt,
			Likes:     []model.IdentityRef{},
			Comments:  []model.Comment{},
		})
		index[r.ID] = i
	}

	var likeRows []likeRow
	if err := a.db.SelectContext(ctx, &likeRows,
		`SELECT post_id, user_id, position FROM social_likes ORDER BY post_id, position`); err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	for _, r := range likeRows {
		if i, ok := index[r.PostID]; ok {
			st.Posts[i].Likes = append(st.Posts[i].Likes, model.IdentityRef(r.UserID))
		}
	}

	var commentRows []commentRow
	if err := a.db.SelectContext(ctx, &commentRows,
		`SELECT id, post_id, author, content, created_at FROM social_comments ORDER BY id`); err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	for _, r := range commentRows {
		if i, ok := index[r.PostID]; ok {
			st.Posts[i].Comments = append(st.Posts[i].Comments, model.Comment{
				ID:        uint64(r.ID),
				Author:    model.IdentityRef(r.Author),
				Content:   r.Content,
				CreatedAt: r.CreatedAt,
			})
		}
	}
	return nil
}
