package client

import (
	"fmt"
	"time"
)

// Session is the explicit login state passed to every authenticated call.
type Session struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Live reports whether the session still carries a token.
func (s *Session) Live() bool {
	return s != nil && s.Token != ""
}

// RoomPost is the canonical room offer record.
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
}

// RoomRequest is the canonical room request record.
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
}

// BookedRoom is the canonical booking record.
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
}

// DashboardEntry is the canonical weekly schedule record.
type DashboardEntry struct {
	ID        int64
	Username  string
	Room      string
	Subject   string
	Date      string
	StartTime string
	EndTime   string
	Day       string
}

// RoomPostInput is the body of a room post create or update.
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

// RoomRequestInput is the body of a room request create or update.
type RoomRequestInput struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock,after_clock=StartTime"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Capacity    int    `json:"capacity" validate:"min=1"`
	Resources   string `json:"resources"`
}

// DashboardEntryInput is the body of a dashboard add.
type DashboardEntryInput struct {
	Room      string `json:"room" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock,after_clock=StartTime"`
	Day       string `json:"day" validate:"required,weekday"`
}

// RegisterInput is the body of an account registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	FullName string `json:"fullName,omitempty" validate:"max=128"`
}

// rawOwner is the nested user shape some payloads carry instead of a flat username.
type rawOwner struct {
	Username string `json:"username"`
}

type rawRoomPost struct {
	ID          int64     `json:"id"`
	Room        string    `json:"room"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	PostedBy    string    `json:"postedBy"`
	Users       *rawOwner `json:"users"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Resources   string    `json:"resources"`
}

type rawRoomRequest struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Resources   string    `json:"resources"`
	RequestedBy string    `json:"requestedBy"`
	Users       *rawOwner `json:"users"`
}

type rawBookedRoom struct {
	ID          int64     `json:"id"`
	RoomPostID  int64     `json:"roomPostId"`
	Room        string    `json:"room"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	PostedBy    string    `json:"postedBy"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Resources   string    `json:"resources"`
	BookedBy    string    `json:"bookedBy"`
	Users       *rawOwner `json:"users"`
}

type rawDashboardEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Users     *rawOwner `json:"users"`
	Room      string    `json:"room"`
	Subject   string    `json:"subject"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Day       string    `json:"day"`
}

// owner prefers the flat field and falls back to the nested users.username.
func owner(flat string, nested *rawOwner) string {
	if flat != "" {
		return flat
	}
	if nested != nil {
		return nested.Username
	}
	return ""
}

type requiredField struct {
	name  string
	empty bool
}

func checkRequired(kind string, id int64, fields ...requiredField) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s is missing id", ErrMalformedRecord, kind)
	}
	for _, f := range fields {
		if f.empty {
			return fmt.Errorf("%w: %s %d is missing %s", ErrMalformedRecord, kind, id, f.name)
		}
	}
	return nil
}

func (r rawRoomPost) normalize() (RoomPost, error) {
	postedBy := owner(r.PostedBy, r.Users)
	if err := checkRequired("room post", r.ID,
		requiredField{"room", r.Room == ""},
		requiredField{"date", r.Date == ""},
		requiredField{"startTime", r.StartTime == ""},
		requiredField{"endTime", r.EndTime == ""},
		requiredField{"postedBy", postedBy == ""},
	); err != nil {
		return RoomPost{}, err
	}
	return RoomPost{
		ID:          r.ID,
		Room:        r.Room,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		PostedBy:    postedBy,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Resources:   r.Resources,
	}, nil
}

func (r rawRoomRequest) normalize() (RoomRequest, error) {
	requestedBy := owner(r.RequestedBy, r.Users)
	if err := checkRequired("room request", r.ID,
		requiredField{"date", r.Date == ""},
		requiredField{"startTime", r.StartTime == ""},
		requiredField{"endTime", r.EndTime == ""},
		requiredField{"requestedBy", requestedBy == ""},
	); err != nil {
		return RoomRequest{}, err
	}
	return RoomRequest{
		ID:          r.ID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Resources:   r.Resources,
		RequestedBy: requestedBy,
	}, nil
}

func (r rawBookedRoom) normalize() (BookedRoom, error) {
	bookedBy := owner(r.BookedBy, r.Users)
	if err := checkRequired("booked room", r.ID,
		requiredField{"room", r.Room == ""},
		requiredField{"date", r.Date == ""},
		requiredField{"postedBy", r.PostedBy == ""},
		requiredField{"bookedBy", bookedBy == ""},
	); err != nil {
		return BookedRoom{}, err
	}
	return BookedRoom{
		ID:          r.ID,
		RoomPostID:  r.RoomPostID,
		Room:        r.Room,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		PostedBy:    r.PostedBy,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Resources:   r.Resources,
		BookedBy:    bookedBy,
	}, nil
}

func (r rawDashboardEntry) normalize() (DashboardEntry, error) {
	username := owner(r.Username, r.Users)
	if err := checkRequired("dashboard entry", r.ID,
		requiredField{"room", r.Room == ""},
		requiredField{"subject", r.Subject == ""},
		requiredField{"day", r.Day == ""},
		requiredField{"username", username == ""},
	); err != nil {
		return DashboardEntry{}, err
	}
	return DashboardEntry{
		ID:        r.ID,
		Username:  username,
		Room:      r.Room,
		Subject:   r.Subject,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Day:       r.Day,
	}, nil
}

type normalizer[T any] interface {
	normalize() (T, error)
}

func normalizeAll[T any, R normalizer[T]](raws []R) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		record, err := raw.normalize()
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
