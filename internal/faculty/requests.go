package faculty

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/roomboard/internal/client"
)

// RequestAPI is the slice of the REST client RequestManager needs.
type RequestAPI interface {
	ListRoomRequests(ctx context.Context, session *client.Session) ([]client.RoomRequest, error)
	ListRoomRequestsByUser(ctx context.Context, session *client.Session, username string) ([]client.RoomRequest, error)
	CreateRoomRequest(ctx context.Context, session *client.Session, input client.RoomRequestInput) (client.RoomRequest, error)
	DeleteRoomRequest(ctx context.Context, session *client.Session, id int64) error
}

// RequestManager mirrors PostManager for room requests. Requests are never
// matched against posts.
type RequestManager struct {
	api     RequestAPI
	session *client.Session
	logger  *slog.Logger

	mu     sync.Mutex
	others []client.RoomRequest
	mine   []client.RoomRequest
}

// NewRequestManager binds a RequestManager to session.
func NewRequestManager(api RequestAPI, session *client.Session, logger *slog.Logger) *RequestManager {
	return &RequestManager{api: api, session: session, logger: defaultLogger(logger)}
}

// Others returns every request not made by the session user.
func (m *RequestManager) Others(ctx context.Context) ([]client.RoomRequest, error) {
	if err := requireSession(m.session); err != nil {
		return nil, err
	}
	requests, err := m.api.ListRoomRequests(ctx, m.session)
	if err != nil {
		managerLogger(ctx, m.logger, "RequestManager", "Others").DebugContext(ctx, "list room requests failed", "error", err)
		return nil, err
	}
	others := othersRequests(requests, m.session.Username)

	m.mu.Lock()
	m.others = others
	m.mu.Unlock()
	return others, nil
}

// Mine returns the session user's requests.
func (m *RequestManager) Mine(ctx context.Context) ([]client.RoomRequest, error) {
	if err := requireSession(m.session); err != nil {
		return nil, err
	}
	requests, err := m.api.ListRoomRequestsByUser(ctx, m.session, m.session.Username)
	if err != nil {
		managerLogger(ctx, m.logger, "RequestManager", "Mine").DebugContext(ctx, "list own room requests failed", "error", err)
		return nil, err
	}

	m.mu.Lock()
	m.mine = requests
	m.mu.Unlock()
	return requests, nil
}

// Create submits a request and refreshes the session user's list.
func (m *RequestManager) Create(ctx context.Context, input client.RoomRequestInput) (client.RoomRequest, error) {
	if err := requireSession(m.session); err != nil {
		return client.RoomRequest{}, err
	}
	logger := managerLogger(ctx, m.logger, "RequestManager", "Create")

	request, err := m.api.CreateRoomRequest(ctx, m.session, input)
	if err != nil {
		logger.DebugContext(ctx, "create room request failed", "error", err)
		return client.RoomRequest{}, err
	}
	if _, err := m.Mine(ctx); err != nil {
		logger.DebugContext(ctx, "refresh after create failed", "error", err)
	}
	return request, nil
}

// Delete removes a request and drops it from the cached lists.
func (m *RequestManager) Delete(ctx context.Context, id int64) error {
	if err := requireSession(m.session); err != nil {
		return err
	}
	if err := m.api.DeleteRoomRequest(ctx, m.session, id); err != nil {
		managerLogger(ctx, m.logger, "RequestManager", "Delete", "room_request_id", id).DebugContext(ctx, "delete room request failed", "error", err)
		return err
	}

	m.mu.Lock()
	byID := func(r client.RoomRequest) bool { return r.ID == id }
	m.others = without(m.others, byID)
	m.mine = without(m.mine, byID)
	m.mu.Unlock()
	return nil
}

// Cached returns the lists from the last fetch.
func (m *RequestManager) Cached() (others, mine []client.RoomRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]client.RoomRequest(nil), m.others...), append([]client.RoomRequest(nil), m.mine...)
}

func othersRequests(requests []client.RoomRequest, username string) []client.RoomRequest {
	return without(requests, func(r client.RoomRequest) bool { return r.RequestedBy == username })
}
