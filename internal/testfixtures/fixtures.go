package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

var (
	userCounter  uint64
	slotCounter  uint64
	entryCounter uint64
)

// referenceTime is a Monday so dashboard "today" lookups are predictable.
var referenceTime = time.Date(2024, time.April, 29, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture is a deterministic faculty account.
type UserFixture struct {
	Username string
	Password string
	Email    string
	FullName string
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a user fixture with a unique username.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	username := fmt.Sprintf("faculty%03d", idx)
	fixture := UserFixture{
		Username: username,
		Password: "correct horse battery",
		Email:    username + "@example.edu",
		FullName: fmt.Sprintf("Faculty %03d", idx),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUsername overrides the generated username.
func WithUsername(username string) UserOption {
	return func(f *UserFixture) {
		f.Username = username
		f.Email = username + "@example.edu"
	}
}

// WithPassword overrides the default password.
func WithPassword(password string) UserOption {
	return func(f *UserFixture) {
		f.Password = password
	}
}

// RegisterParams converts the fixture into registration input.
func (f UserFixture) RegisterParams() application.RegisterParams {
	return application.RegisterParams{
		Username: f.Username,
		Password: f.Password,
		Email:    f.Email,
		FullName: f.FullName,
	}
}

// Persistence converts the fixture into a storage record. The password is
// stored as-is, which is only meaningful for repository tests.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		Username:     f.Username,
		PasswordHash: "plain:" + f.Password,
		Email:        f.Email,
		FullName:     f.FullName,
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
}

// ----------------------------- Slot fixtures -----------------------------

// SlotFixture describes a room post or room request window. Successive
// fixtures land on successive days so list ordering is deterministic.
type SlotFixture struct {
	Room        string
	Date        string
	StartTime   string
	EndTime     string
	Description string
	Location    string
	Capacity    int
	Resources   string
}

// SlotOption configures the generated slot fixture.
type SlotOption func(*SlotFixture)

// NewSlotFixture returns a one hour slot on a fresh day after ReferenceTime.
func NewSlotFixture(opts ...SlotOption) SlotFixture {
	idx := atomic.AddUint64(&slotCounter, 1)
	fixture := SlotFixture{
		Room:        fmt.Sprintf("R%03d", idx),
		Date:        referenceTime.AddDate(0, 0, int(idx)).Format("2006-01-02"),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Description: fmt.Sprintf("Session %03d", idx),
		Location:    "Main Building",
		Capacity:    30,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSlotDate overrides the slot date.
func WithSlotDate(date string) SlotOption {
	return func(f *SlotFixture) {
		f.Date = date
	}
}

// WithSlotWindow overrides the start and end times.
func WithSlotWindow(start, end string) SlotOption {
	return func(f *SlotFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithSlotCapacity overrides the capacity.
func WithSlotCapacity(capacity int) SlotOption {
	return func(f *SlotFixture) {
		f.Capacity = capacity
	}
}

// WithSlotResources overrides the resources description.
func WithSlotResources(resources string) SlotOption {
	return func(f *SlotFixture) {
		f.Resources = resources
	}
}

// RoomPostInput converts the fixture into room post input.
func (f SlotFixture) RoomPostInput() application.RoomPostInput {
	return application.RoomPostInput{
		Room:        f.Room,
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Description: f.Description,
		Location:    f.Location,
		Capacity:    f.Capacity,
		Resources:   f.Resources,
	}
}

// RoomRequestInput converts the fixture into room request input. Room is dropped.
func (f SlotFixture) RoomRequestInput() application.RoomRequestInput {
	return application.RoomRequestInput{
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Description: f.Description,
		Location:    f.Location,
		Capacity:    f.Capacity,
		Resources:   f.Resources,
	}
}

// RoomPost converts the fixture into a storage record owned by postedBy.
func (f SlotFixture) RoomPost(postedBy string) persistence.RoomPost {
	return persistence.RoomPost{
		Room:        f.Room,
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		PostedBy:    postedBy,
		Description: f.Description,
		Location:    f.Location,
		Capacity:    f.Capacity,
		Resources:   f.Resources,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
}

// RoomRequest converts the fixture into a storage record owned by requestedBy.
func (f SlotFixture) RoomRequest(requestedBy string) persistence.RoomRequest {
	return persistence.RoomRequest{
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Description: f.Description,
		Location:    f.Location,
		Capacity:    f.Capacity,
		Resources:   f.Resources,
		RequestedBy: requestedBy,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
}

// ------------------------ Dashboard entry fixtures ------------------------

// DashboardEntryFixture is a class slot on a weekly dashboard.
type DashboardEntryFixture struct {
	Room      string
	Subject   string
	Date      string
	StartTime string
	EndTime   string
	Day       string
}

// DashboardEntryOption configures the generated dashboard entry fixture.
type DashboardEntryOption func(*DashboardEntryFixture)

// NewDashboardEntryFixture returns a Monday morning class.
func NewDashboardEntryFixture(opts ...DashboardEntryOption) DashboardEntryFixture {
	idx := atomic.AddUint64(&entryCounter, 1)
	fixture := DashboardEntryFixture{
		Room:      fmt.Sprintf("L%03d", idx),
		Subject:   fmt.Sprintf("Course %03d", idx),
		Date:      referenceTime.Format("2006-01-02"),
		StartTime: "09:00",
		EndTime:   "10:30",
		Day:       "Monday",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEntryDay overrides the weekday.
func WithEntryDay(day string) DashboardEntryOption {
	return func(f *DashboardEntryFixture) {
		f.Day = day
	}
}

// WithEntryStart overrides the start time, keeping a ninety minute class.
func WithEntryStart(start string) DashboardEntryOption {
	return func(f *DashboardEntryFixture) {
		t, err := time.Parse("15:04", start)
		if err != nil {
			return
		}
		f.StartTime = start
		f.EndTime = t.Add(90 * time.Minute).Format("15:04")
	}
}

// Input converts the fixture into dashboard entry input.
func (f DashboardEntryFixture) Input() application.DashboardEntryInput {
	return application.DashboardEntryInput{
		Room:      f.Room,
		Subject:   f.Subject,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Day:       f.Day,
	}
}

// Persistence converts the fixture into a storage record owned by username.
func (f DashboardEntryFixture) Persistence(username string) persistence.DashboardEntry {
	return persistence.DashboardEntry{
		Username:  username,
		Room:      f.Room,
		Subject:   f.Subject,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Day:       f.Day,
		CreatedAt: referenceTime,
	}
}
