package application

import "time"

// Principal represents the authenticated faculty member invoking a service method.
type Principal struct {
	Username string
}

// RoomPostInput captures caller provided room post fields.
type RoomPostInput struct {
	Room        string `json:"room" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock,after_clock=StartTime"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Capacity    int    `json:"capacity" validate:"min=1"`
	Resources   string `json:"resources"`
}

// RoomPost is an offer by a faculty member that a room is free during a time window.
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

// CreateRoomPostParams wraps the data required to create a room post.
type CreateRoomPostParams struct {
	Principal Principal
	Input     RoomPostInput
}

// UpdateRoomPostParams wraps the data required to update a room post.
type UpdateRoomPostParams struct {
	Principal Principal
	PostID    int64
	Input     RoomPostInput
}

// RoomRequestInput captures caller provided room request fields.
type RoomRequestInput struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock,after_clock=StartTime"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Capacity    int    `json:"capacity" validate:"min=1"`
	Resources   string `json:"resources"`
}

// RoomRequest is a faculty member's ask for a room meeting capacity and resource needs.
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

// CreateRoomRequestParams wraps the data required to create a room request.
type CreateRoomRequestParams struct {
	Principal Principal
	Input     RoomRequestInput
}

// UpdateRoomRequestParams wraps the data required to update a room request.
type UpdateRoomRequestParams struct {
	Principal Principal
	RequestID int64
	Input     RoomRequestInput
}

// BookedRoom records a faculty member claiming a previously posted room slot.
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

// BookRoomParams wraps the data required to book a room post.
type BookRoomParams struct {
	Principal  Principal
	RoomPostID int64
}

// DashboardEntryInput captures caller provided dashboard entry fields.
type DashboardEntryInput struct {
	Room      string `json:"room" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock,after_clock=StartTime"`
	Day       string `json:"day" validate:"required,weekday"`
}

// DashboardEntry is a personal weekday tagged class schedule item.
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

// AddDashboardEntryParams wraps the data required to add a dashboard entry.
type AddDashboardEntryParams struct {
	Principal Principal
	Input     DashboardEntryInput
}

// User represents a faculty account.
type User struct {
	ID        int64
	Username  string
	Email     string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// RegisterParams captures the data required to create an account.
type RegisterParams struct {
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"fullName" validate:"max=128"`
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	Username  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Username string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// SessionInfo describes the live session behind a validated token.
type SessionInfo struct {
	Principal Principal
	ExpiresAt time.Time
}
