package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/roomboard/internal/validation"
)

// DashboardRepository captures the persistence operations needed by the dashboard service.
type DashboardRepository interface {
	CreateDashboardEntry(ctx context.Context, entry DashboardEntry) (DashboardEntry, error)
	GetDashboardEntry(ctx context.Context, id int64) (DashboardEntry, error)
	ListDashboardEntries(ctx context.Context, username, day string) ([]DashboardEntry, error)
	DeleteDashboardEntry(ctx context.Context, id int64) error
}

// DashboardService manages each member's weekly class schedule.
type DashboardService struct {
	entries DashboardRepository
	now     func() time.Time
	logger  *slog.Logger
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(entries DashboardRepository, now func() time.Time) *DashboardService {
	return NewDashboardServiceWithLogger(entries, now, nil)
}

// NewDashboardServiceWithLogger constructs a dashboard service with a specified logger.
func NewDashboardServiceWithLogger(entries DashboardRepository, now func() time.Time, logger *slog.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{entries: entries, now: now, logger: defaultLogger(logger)}
}

func (s *DashboardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DashboardService", operation, attrs...)
}

// AddEntry stores a dashboard entry for the principal. The day is canonicalised.
func (s *DashboardService) AddEntry(ctx context.Context, params AddDashboardEntryParams) (entry DashboardEntry, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.entries == nil {
		err = fmt.Errorf("dashboard repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddEntry", "principal", params.Principal.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add dashboard entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("dashboard_entry_id", entry.ID, "day", entry.Day).InfoContext(ctx, "dashboard entry added")
	}()

	if params.Principal.Username == "" {
		err = ErrUnauthorized
		return
	}

	input := params.Input
	input.Room = strings.TrimSpace(input.Room)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Date = strings.TrimSpace(input.Date)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	input.Day = strings.TrimSpace(input.Day)
	if vErr := validateInput(input); vErr != nil {
		err = vErr
		return
	}
	day, _ := validation.CanonicalWeekday(input.Day)

	entry, err = s.entries.CreateDashboardEntry(ctx, DashboardEntry{
		Username:  params.Principal.Username,
		Room:      input.Room,
		Subject:   input.Subject,
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Day:       day,
		CreatedAt: s.now(),
	})
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// ListEntries returns username's entries ordered Monday through Sunday, then by
// start time and id. A non-empty day restricts the result to that weekday.
func (s *DashboardService) ListEntries(ctx context.Context, username, day string) (entries []DashboardEntry, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.entries == nil {
		return []DashboardEntry{}, nil
	}

	username = strings.TrimSpace(username)
	logger := s.loggerWith(ctx, "ListEntries", "username", username, "day", day)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list dashboard entries", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(entries)).DebugContext(ctx, "dashboard entries listed")
	}()

	if strings.TrimSpace(day) != "" {
		canonical, ok := validation.CanonicalWeekday(day)
		if !ok {
			err = validationFailure("day", "day must be a weekday name")
			return
		}
		day = canonical
	}

	var raw []DashboardEntry
	raw, err = s.entries.ListDashboardEntries(ctx, username, day)
	if err != nil {
		return
	}

	entries = make([]DashboardEntry, len(raw))
	copy(entries, raw)
	SortDashboardEntries(entries)
	return
}

// DeleteEntry removes an entry owned by the principal.
func (s *DashboardService) DeleteEntry(ctx context.Context, principal Principal, id int64) error {
	if s == nil {
		return fmt.Errorf("DashboardService is nil")
	}
	if s.entries == nil {
		return fmt.Errorf("dashboard repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEntry",
		"principal", principal.Username,
		"dashboard_entry_id", id,
	)

	existing, err := s.entries.GetDashboardEntry(ctx, id)
	if err == nil && existing.Username != principal.Username {
		err = ErrUnauthorized
	}
	if err == nil {
		err = s.entries.DeleteDashboardEntry(ctx, id)
	}
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete dashboard entry", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "dashboard entry deleted")
	return nil
}

// SortDashboardEntries orders entries by weekday (Monday first), start time, then id.
func SortDashboardEntries(entries []DashboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := validation.WeekdayIndex(entries[i].Day), validation.WeekdayIndex(entries[j].Day)
		if di != dj {
			return di < dj
		}
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].ID < entries[j].ID
	})
}
