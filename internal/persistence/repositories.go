package persistence

import (
	"context"
	"time"
)

// UserRepository stores faculty accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// RoomPostRepository exposes CRUD operations for room posts.
type RoomPostRepository interface {
	CreateRoomPost(ctx context.Context, post RoomPost) (RoomPost, error)
	UpdateRoomPost(ctx context.Context, post RoomPost) (RoomPost, error)
	GetRoomPost(ctx context.Context, id int64) (RoomPost, error)
	ListRoomPosts(ctx context.Context, postedBy string) ([]RoomPost, error)
	DeleteRoomPost(ctx context.Context, id int64) error
}

// RoomRequestRepository exposes CRUD operations for room requests.
type RoomRequestRepository interface {
	CreateRoomRequest(ctx context.Context, request RoomRequest) (RoomRequest, error)
	UpdateRoomRequest(ctx context.Context, request RoomRequest) (RoomRequest, error)
	GetRoomRequest(ctx context.Context, id int64) (RoomRequest, error)
	ListRoomRequests(ctx context.Context, requestedBy string) ([]RoomRequest, error)
	DeleteRoomRequest(ctx context.Context, id int64) error
}

// BookedRoomRepository stores bookings. BookRoomPost moves a post into the
// booked table in a single transaction.
type BookedRoomRepository interface {
	BookRoomPost(ctx context.Context, postID int64, bookedBy string, bookedAt time.Time) (BookedRoom, error)
	GetBookedRoom(ctx context.Context, id int64) (BookedRoom, error)
	ListBookedRooms(ctx context.Context, bookedBy string) ([]BookedRoom, error)
	DeleteBookedRoom(ctx context.Context, id int64) error
}

// DashboardRepository stores dashboard entries.
type DashboardRepository interface {
	CreateDashboardEntry(ctx context.Context, entry DashboardEntry) (DashboardEntry, error)
	GetDashboardEntry(ctx context.Context, id int64) (DashboardEntry, error)
	ListDashboardEntries(ctx context.Context, username, day string) ([]DashboardEntry, error)
	DeleteDashboardEntry(ctx context.Context, id int64) error
}
