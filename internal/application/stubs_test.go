package application

import (
	"context"
	"sync"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

type userRepositoryStub struct {
	mu        sync.Mutex
	nextID    int64
	users     map[string]UserCredentials
	createErr error
}

func newUserRepositoryStub() *userRepositoryStub {
	return &userRepositoryStub{users: make(map[string]UserCredentials)}
}

func (s *userRepositoryStub) CreateUser(_ context.Context, user User, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return User{}, s.createErr
	}
	if _, exists := s.users[user.Username]; exists {
		return User{}, persistence.ErrDuplicate
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = UserCredentials{User: user, PasswordHash: passwordHash}
	return user, nil
}

func (s *userRepositoryStub) GetUserCredentialsByUsername(_ context.Context, username string) (UserCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.users[username]
	if !ok {
		return UserCredentials{}, persistence.ErrNotFound
	}
	return creds, nil
}

func (s *userRepositoryStub) GetUserByUsername(ctx context.Context, username string) (User, error) {
	creds, err := s.GetUserCredentialsByUsername(ctx, username)
	return creds.User, err
}

type sessionRepositoryStub struct {
	mu          sync.Mutex
	sessions    map[string]Session
	deleteCalls []time.Time
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessions: make(map[string]Session)}
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session Session) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls = append(s.deleteCalls, reference)
	return nil
}

type roomPostRepositoryStub struct {
	mu      sync.Mutex
	nextID  int64
	posts   map[int64]RoomPost
	listErr error
}

func newRoomPostRepositoryStub(posts ...RoomPost) *roomPostRepositoryStub {
	stub := &roomPostRepositoryStub{posts: make(map[int64]RoomPost)}
	for _, post := range posts {
		stub.posts[post.ID] = post
		if post.ID > stub.nextID {
			stub.nextID = post.ID
		}
	}
	return stub
}

func (s *roomPostRepositoryStub) CreateRoomPost(_ context.Context, post RoomPost) (RoomPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	post.ID = s.nextID
	s.posts[post.ID] = post
	return post, nil
}

func (s *roomPostRepositoryStub) GetRoomPost(_ context.Context, id int64) (RoomPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return RoomPost{}, persistence.ErrNotFound
	}
	return post, nil
}

func (s *roomPostRepositoryStub) UpdateRoomPost(_ context.Context, post RoomPost) (RoomPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return RoomPost{}, persistence.ErrNotFound
	}
	s.posts[post.ID] = post
	return post, nil
}

func (s *roomPostRepositoryStub) DeleteRoomPost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *roomPostRepositoryStub) ListRoomPosts(_ context.Context, postedBy string) ([]RoomPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []RoomPost
	for _, post := range s.posts {
		if postedBy == "" || post.PostedBy == postedBy {
			out = append(out, post)
		}
	}
	return out, nil
}

type roomRequestRepositoryStub struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]RoomRequest
}

func newRoomRequestRepositoryStub() *roomRequestRepositoryStub {
	return &roomRequestRepositoryStub{requests: make(map[int64]RoomRequest)}
}

func (s *roomRequestRepositoryStub) CreateRoomRequest(_ context.Context, request RoomRequest) (RoomRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	request.ID = s.nextID
	s.requests[request.ID] = request
	return request, nil
}

func (s *roomRequestRepositoryStub) GetRoomRequest(_ context.Context, id int64) (RoomRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return RoomRequest{}, persistence.ErrNotFound
	}
	return request, nil
}

func (s *roomRequestRepositoryStub) UpdateRoomRequest(_ context.Context, request RoomRequest) (RoomRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.ID] = request
	return request, nil
}

func (s *roomRequestRepositoryStub) DeleteRoomRequest(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *roomRequestRepositoryStub) ListRoomRequests(_ context.Context, requestedBy string) ([]RoomRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RoomRequest
	for _, request := range s.requests {
		if requestedBy == "" || request.RequestedBy == requestedBy {
			out = append(out, request)
		}
	}
	return out, nil
}

// bookedRoomRepositoryStub books out of a roomPostRepositoryStub so tests can
// observe that the post disappears.
type bookedRoomRepositoryStub struct {
	mu     sync.Mutex
	posts  *roomPostRepositoryStub
	nextID int64
	booked map[int64]BookedRoom
}

func newBookedRoomRepositoryStub(posts *roomPostRepositoryStub) *bookedRoomRepositoryStub {
	return &bookedRoomRepositoryStub{posts: posts, booked: make(map[int64]BookedRoom)}
}

func (s *bookedRoomRepositoryStub) BookRoomPost(ctx context.Context, postID int64, bookedBy string, bookedAt time.Time) (BookedRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, err := s.posts.GetRoomPost(ctx, postID)
	if err != nil {
		return BookedRoom{}, err
	}
	if post.PostedBy == bookedBy {
		return BookedRoom{}, persistence.ErrSelfBooking
	}
	if err := s.posts.DeleteRoomPost(ctx, postID); err != nil {
		return BookedRoom{}, err
	}
	s.nextID++
	booked := BookedRoom{
		ID:          s.nextID,
		RoomPostID:  post.ID,
		Room:        post.Room,
		Date:        post.Date,
		StartTime:   post.StartTime,
		EndTime:     post.EndTime,
		PostedBy:    post.PostedBy,
		Description: post.Description,
		Location:    post.Location,
		Capacity:    post.Capacity,
		Resources:   post.Resources,
		BookedBy:    bookedBy,
		BookedAt:    bookedAt,
	}
	s.booked[booked.ID] = booked
	return booked, nil
}

func (s *bookedRoomRepositoryStub) GetBookedRoom(_ context.Context, id int64) (BookedRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booked, ok := s.booked[id]
	if !ok {
		return BookedRoom{}, persistence.ErrNotFound
	}
	return booked, nil
}

func (s *bookedRoomRepositoryStub) ListBookedRooms(_ context.Context, bookedBy string) ([]BookedRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []BookedRoom
	for _, booked := range s.booked {
		if bookedBy == "" || booked.BookedBy == bookedBy {
			out = append(out, booked)
		}
	}
	return out, nil
}

func (s *bookedRoomRepositoryStub) DeleteBookedRoom(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.booked[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.booked, id)
	return nil
}

type dashboardRepositoryStub struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]DashboardEntry
}

func newDashboardRepositoryStub() *dashboardRepositoryStub {
	return &dashboardRepositoryStub{entries: make(map[int64]DashboardEntry)}
}

func (s *dashboardRepositoryStub) CreateDashboardEntry(_ context.Context, entry DashboardEntry) (DashboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *dashboardRepositoryStub) GetDashboardEntry(_ context.Context, id int64) (DashboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return DashboardEntry{}, persistence.ErrNotFound
	}
	return entry, nil
}

func (s *dashboardRepositoryStub) ListDashboardEntries(_ context.Context, username, day string) ([]DashboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []DashboardEntry
	for _, entry := range s.entries {
		if entry.Username != username {
			continue
		}
		if day != "" && entry.Day != day {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *dashboardRepositoryStub) DeleteDashboardEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 4, 29, 9, 0, 0, 0, time.UTC)
}
