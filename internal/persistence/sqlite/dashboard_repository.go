package sqlite

import (
	"context"
	"fmt"

	"github.com/example/roomboard/internal/persistence"
)

// DashboardRepository implements persistence.DashboardRepository using SQLite.
type DashboardRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewDashboardRepository creates a new SQLite dashboard repository.
func NewDashboardRepository(pool *ConnectionPool) *DashboardRepository {
	return &DashboardRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const selectDashboardEntry = `
	SELECT id, username, room, subject, date, start_time, end_time, day, created_at
	FROM dashboard_entries`

// dayOrder sorts weekday names Monday first.
const dayOrder = `CASE day
	WHEN 'Monday' THEN 0 WHEN 'Tuesday' THEN 1 WHEN 'Wednesday' THEN 2 WHEN 'Thursday' THEN 3
	WHEN 'Friday' THEN 4 WHEN 'Saturday' THEN 5 ELSE 6 END`

// CreateDashboardEntry inserts an entry and returns it with its assigned id.
func (r *DashboardRepository) CreateDashboardEntry(ctx context.Context, entry persistence.DashboardEntry) (persistence.DashboardEntry, error) {
	if entry.Username == "" {
		return persistence.DashboardEntry{}, persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		INSERT INTO dashboard_entries (username, room, subject, date, start_time, end_time, day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Username,
		entry.Room,
		entry.Subject,
		entry.Date,
		entry.StartTime,
		entry.EndTime,
		entry.Day,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return persistence.DashboardEntry{}, r.mapper.MapError(err)
	}
	if entry.ID, err = result.LastInsertId(); err != nil {
		return persistence.DashboardEntry{}, fmt.Errorf("failed to read dashboard entry id: %w", err)
	}
	return entry, nil
}

// GetDashboardEntry retrieves an entry by id.
func (r *DashboardRepository) GetDashboardEntry(ctx context.Context, id int64) (persistence.DashboardEntry, error) {
	entry, err := scanDashboardEntry(r.helper.QueryRow(ctx, selectDashboardEntry+` WHERE id = ?`, id))
	if err != nil {
		return persistence.DashboardEntry{}, r.mapper.MapError(err)
	}
	return entry, nil
}

// ListDashboardEntries returns username's entries Monday first, then by start
// time and id. A non-empty day restricts the result to that weekday.
func (r *DashboardRepository) ListDashboardEntries(ctx context.Context, username, day string) ([]persistence.DashboardEntry, error) {
	query := selectDashboardEntry + ` WHERE username = ?`
	args := []any{username}
	if day != "" {
		query += ` AND day = ?`
		args = append(args, day)
	}
	query += ` ORDER BY ` + dayOrder + `, start_time ASC, id ASC`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	entries := []persistence.DashboardEntry{}
	for rows.Next() {
		entry, err := scanDashboardEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return entries, nil
}

// DeleteDashboardEntry removes an entry. Deleting a missing entry returns ErrNotFound.
func (r *DashboardRepository) DeleteDashboardEntry(ctx context.Context, id int64) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM dashboard_entries WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanDashboardEntry(row rowScanner) (persistence.DashboardEntry, error) {
	var (
		entry     persistence.DashboardEntry
		createdAt string
	)
	err := row.Scan(
		&entry.ID,
		&entry.Username,
		&entry.Room,
		&entry.Subject,
		&entry.Date,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Day,
		&createdAt,
	)
	if err != nil {
		return persistence.DashboardEntry{}, err
	}
	if entry.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.DashboardEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entry, nil
}
