package faculty

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/validation"
)

// ErrInvalidWeekday is returned for day names outside Monday..Sunday.
var ErrInvalidWeekday = errors.New("faculty: invalid weekday")

// DashboardAPI is the slice of the REST client DashboardManager needs.
type DashboardAPI interface {
	AddDashboardEntry(ctx context.Context, session *client.Session, input client.DashboardEntryInput) (client.DashboardEntry, error)
	ListDashboardEntries(ctx context.Context, session *client.Session, username, day string) ([]client.DashboardEntry, error)
	DeleteDashboardEntry(ctx context.Context, session *client.Session, id int64) error
}

// DaySchedule is the dashboard view of one weekday.
type DaySchedule struct {
	Day     string
	Entries []client.DashboardEntry
	Count   int
}

// Empty reports a day with no classes.
func (d DaySchedule) Empty() bool {
	return d.Count == 0
}

// DashboardManager keeps the session user's weekly class schedule.
type DashboardManager struct {
	api     DashboardAPI
	session *client.Session
	now     func() time.Time
	logger  *slog.Logger

	mu      sync.Mutex
	entries []client.DashboardEntry
}

// NewDashboardManager binds a DashboardManager to session. now defaults to time.Now.
func NewDashboardManager(api DashboardAPI, session *client.Session, now func() time.Time, logger *slog.Logger) *DashboardManager {
	if now == nil {
		now = time.Now
	}
	return &DashboardManager{api: api, session: session, now: now, logger: defaultLogger(logger)}
}

// Add creates an entry and appends it to the cached schedule.
func (m *DashboardManager) Add(ctx context.Context, input client.DashboardEntryInput) (client.DashboardEntry, error) {
	if err := requireSession(m.session); err != nil {
		return client.DashboardEntry{}, err
	}
	entry, err := m.api.AddDashboardEntry(ctx, m.session, input)
	if err != nil {
		managerLogger(ctx, m.logger, "DashboardManager", "Add").DebugContext(ctx, "add dashboard entry failed", "error", err)
		return client.DashboardEntry{}, err
	}

	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return entry, nil
}

// List fetches the session user's full schedule and caches it.
func (m *DashboardManager) List(ctx context.Context) ([]client.DashboardEntry, error) {
	if err := requireSession(m.session); err != nil {
		return nil, err
	}
	entries, err := m.api.ListDashboardEntries(ctx, m.session, m.session.Username, "")
	if err != nil {
		managerLogger(ctx, m.logger, "DashboardManager", "List").DebugContext(ctx, "list dashboard entries failed", "error", err)
		return nil, err
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
	return entries, nil
}

// Delete removes an entry and drops it from the cached schedule.
func (m *DashboardManager) Delete(ctx context.Context, id int64) error {
	if err := requireSession(m.session); err != nil {
		return err
	}
	if err := m.api.DeleteDashboardEntry(ctx, m.session, id); err != nil {
		managerLogger(ctx, m.logger, "DashboardManager", "Delete", "dashboard_entry_id", id).DebugContext(ctx, "delete dashboard entry failed", "error", err)
		return err
	}

	m.mu.Lock()
	m.entries = without(m.entries, func(e client.DashboardEntry) bool { return e.ID == id })
	m.mu.Unlock()
	return nil
}

// ForDay filters the cached schedule to day. A day with no entries is not an error.
func (m *DashboardManager) ForDay(day string) (DaySchedule, error) {
	canonical, ok := validation.CanonicalWeekday(day)
	if !ok {
		return DaySchedule{}, ErrInvalidWeekday
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]client.DashboardEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry.Day == canonical {
			entries = append(entries, entry)
		}
	}
	return DaySchedule{Day: canonical, Entries: entries, Count: len(entries)}, nil
}

// Today is ForDay for the current weekday.
func (m *DashboardManager) Today() (DaySchedule, error) {
	return m.ForDay(validation.WeekdayOf(m.now()))
}
