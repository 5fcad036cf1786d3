package persistence

import "time"

// User represents a faculty account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents a persisted authentication session.
type Session struct {
	ID        string
	Username  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// RoomPost is a room slot offered by its poster.
type RoomPost struct {
	ID          int64
	Room        string
	Date        string
	StartTime   string
	EndTime     string
	PostedBy    string
	Description string
	Location    string
	Capacity    int
	Resources   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomRequest is a request for a room matching capacity and resource needs.
type RoomRequest struct {
	ID          int64
	Date        string
	StartTime   string
	EndTime     string
	Description string
	Location    string
	Capacity    int
	Resources   string
	RequestedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookedRoom is a room post claimed by another member.
type BookedRoom struct {
	ID          int64
	RoomPostID  int64
	Room        string
	Date        string
	StartTime   string
	EndTime     string
	PostedBy    string
	Description string
	Location    string
	Capacity    int
	Resources   string
	BookedBy    string
	BookedAt    time.Time
}

// DashboardEntry is a weekday tagged class slot on a member's dashboard.
type DashboardEntry struct {
	ID        int64
	Username  string
	Room      string
	Subject   string
	Date      string
	StartTime string
	EndTime   string
	Day       string
	CreatedAt time.Time
}
