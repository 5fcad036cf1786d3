// Package sqlite implements the roomboard repositories on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/roomboard/internal/persistence"
	"github.com/example/roomboard/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage bundles the connection pool and every repository built on it.
type Storage struct {
	pool   *ConnectionPool
	logger *slog.Logger

	Users        *UserRepository
	Sessions     *SessionRepository
	RoomPosts    *RoomPostRepository
	RoomRequests *RoomRequestRepository
	BookedRooms  *BookedRoomRepository
	Dashboard    *DashboardRepository
}

// Open connects to the database described by config.
func Open(config Config, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}
	return &Storage{
		pool:         pool,
		logger:       logger,
		Users:        NewUserRepository(pool),
		Sessions:     NewSessionRepository(pool),
		RoomPosts:    NewRoomPostRepository(pool),
		RoomRequests: NewRoomRequestRepository(pool),
		BookedRooms:  NewBookedRoomRepository(pool, DefaultRetryConfig()),
		Dashboard:    NewDashboardRepository(pool),
	}, nil
}

// Migrate applies the embedded schema migrations and returns how many ran.
func (s *Storage) Migrate(ctx context.Context) (int, error) {
	manager := migration.NewManager(
		migration.NewFileScanner(),
		migration.NewSQLiteExecutor(s.pool.DB()),
		migrationFiles,
		"migrations",
		s.logger,
	)
	applied, err := manager.Run(ctx)
	if err != nil {
		return applied, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return applied, nil
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Parse(time.RFC3339Nano, value)
	}
	return t, nil
}

// requireAffected turns a statement that touched no rows into ErrNotFound.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
