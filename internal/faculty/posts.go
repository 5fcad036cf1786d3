package faculty

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/roomboard/internal/client"
)

// PostAPI is the slice of the REST client PostManager needs.
type PostAPI interface {
	ListRoomPosts(ctx context.Context, session *client.Session) ([]client.RoomPost, error)
	ListRoomPostsByUser(ctx context.Context, session *client.Session, username string) ([]client.RoomPost, error)
	CreateRoomPost(ctx context.Context, session *client.Session, input client.RoomPostInput) (client.RoomPost, error)
	DeleteRoomPost(ctx context.Context, session *client.Session, id int64) error
}

// PostManager lists, creates and deletes room posts for the session user and
// keeps the last fetched lists.
type PostManager struct {
	api     PostAPI
	session *client.Session
	logger  *slog.Logger

	mu     sync.Mutex
	others []client.RoomPost
	mine   []client.RoomPost
}

// NewPostManager binds a PostManager to session.
func NewPostManager(api PostAPI, session *client.Session, logger *slog.Logger) *PostManager {
	return &PostManager{api: api, session: session, logger: defaultLogger(logger)}
}

// Others returns every post not made by the session user.
func (m *PostManager) Others(ctx context.Context) ([]client.RoomPost, error) {
	if err := requireSession(m.session); err != nil {
		return nil, err
	}
	posts, err := m.api.ListRoomPosts(ctx, m.session)
	if err != nil {
		managerLogger(ctx, m.logger, "PostManager", "Others").DebugContext(ctx, "list room posts failed", "error", err)
		return nil, err
	}
	others := othersPosts(posts, m.session.Username)

	m.mu.Lock()
	m.others = others
	m.mu.Unlock()
	return others, nil
}

// Mine returns the session user's posts.
func (m *PostManager) Mine(ctx context.Context) ([]client.RoomPost, error) {
	if err := requireSession(m.session); err != nil {
		return nil, err
	}
	posts, err := m.api.ListRoomPostsByUser(ctx, m.session, m.session.Username)
	if err != nil {
		managerLogger(ctx, m.logger, "PostManager", "Mine").DebugContext(ctx, "list own room posts failed", "error", err)
		return nil, err
	}

	m.mu.Lock()
	m.mine = posts
	m.mu.Unlock()
	return posts, nil
}

// Create submits a post and refreshes the session user's list.
func (m *PostManager) Create(ctx context.Context, input client.RoomPostInput) (client.RoomPost, error) {
	if err := requireSession(m.session); err != nil {
		return client.RoomPost{}, err
	}
	logger := managerLogger(ctx, m.logger, "PostManager", "Create", "room", input.Room)

	post, err := m.api.CreateRoomPost(ctx, m.session, input)
	if err != nil {
		logger.DebugContext(ctx, "create room post failed", "error", err)
		return client.RoomPost{}, err
	}
	if _, err := m.Mine(ctx); err != nil {
		logger.DebugContext(ctx, "refresh after create failed", "error", err)
	}
	return post, nil
}

// Delete removes a post and drops it from the cached lists.
func (m *PostManager) Delete(ctx context.Context, id int64) error {
	if err := requireSession(m.session); err != nil {
		return err
	}
	if err := m.api.DeleteRoomPost(ctx, m.session, id); err != nil {
		managerLogger(ctx, m.logger, "PostManager", "Delete", "room_post_id", id).DebugContext(ctx, "delete room post failed", "error", err)
		return err
	}
	m.forget(id)
	return nil
}

// Cached returns the lists from the last fetch.
func (m *PostManager) Cached() (others, mine []client.RoomPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]client.RoomPost(nil), m.others...), append([]client.RoomPost(nil), m.mine...)
}

func (m *PostManager) forget(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := func(p client.RoomPost) bool { return p.ID == id }
	m.others = without(m.others, byID)
	m.mine = without(m.mine, byID)
}

func othersPosts(posts []client.RoomPost, username string) []client.RoomPost {
	return without(posts, func(p client.RoomPost) bool { return p.PostedBy == username })
}
