package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/roomboard/internal/persistence"
	"github.com/example/roomboard/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style persistence tests.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	Users        persistence.UserRepository
	Sessions     persistence.SessionRepository
	RoomPosts    persistence.RoomPostRepository
	RoomRequests persistence.RoomRequestRepository
	BookedRooms  persistence.BookedRoomRepository
	Dashboard    persistence.DashboardRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "roomboard.db")

	storage, err := sqlite.Open(sqlite.TestConfig(path), nil)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if _, err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:      storage,
		Users:        storage.Users,
		Sessions:     storage.Sessions,
		RoomPosts:    storage.RoomPosts,
		RoomRequests: storage.RoomRequests,
		BookedRooms:  storage.BookedRooms,
		Dashboard:    storage.Dashboard,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedUser stores the fixture account and fails the test on error.
func (h *SQLiteHarness) SeedUser(tb testing.TB, fixture UserFixture) persistence.User {
	tb.Helper()
	user, err := h.Users.CreateUser(context.Background(), fixture.Persistence())
	if err != nil {
		tb.Fatalf("failed to seed user %s: %v", fixture.Username, err)
	}
	return user
}
