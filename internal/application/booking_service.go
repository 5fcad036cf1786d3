package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

// BookedRoomRepository captures the persistence operations needed by the booking service.
// BookRoomPost must copy the post into the booked table and remove the post atomically.
type BookedRoomRepository interface {
	BookRoomPost(ctx context.Context, postID int64, bookedBy string, bookedAt time.Time) (BookedRoom, error)
	GetBookedRoom(ctx context.Context, id int64) (BookedRoom, error)
	ListBookedRooms(ctx context.Context, bookedBy string) ([]BookedRoom, error)
	DeleteBookedRoom(ctx context.Context, id int64) error
}

// BookingService claims room posts for faculty members.
type BookingService struct {
	bookings BookedRoomRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewBookingService constructs a booking service.
func NewBookingService(bookings BookedRoomRepository, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings BookedRoomRepository, now func() time.Time, logger *slog.Logger) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{bookings: bookings, now: now, logger: defaultLogger(logger)}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// BookRoom records the principal as booker of a post and withdraws the post.
func (s *BookingService) BookRoom(ctx context.Context, params BookRoomParams) (booked BookedRoom, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil {
		err = fmt.Errorf("booked room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "BookRoom",
		"principal", params.Principal.Username,
		"room_post_id", params.RoomPostID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to book room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booked_room_id", booked.ID).InfoContext(ctx, "room booked")
	}()

	if params.Principal.Username == "" {
		err = ErrUnauthorized
		return
	}
	if params.RoomPostID <= 0 {
		err = validationFailure("roomPostId", "roomPostId is required")
		return
	}

	booked, err = s.bookings.BookRoomPost(ctx, params.RoomPostID, params.Principal.Username, s.now())
	if err != nil {
		if errors.Is(err, persistence.ErrSelfBooking) {
			err = validationFailure("roomPostId", "cannot book your own room post")
			return
		}
		err = mapRepoError(err)
	}
	return
}

// GetBookedRoom returns a single booking.
func (s *BookingService) GetBookedRoom(ctx context.Context, id int64) (BookedRoom, error) {
	if s == nil {
		return BookedRoom{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return BookedRoom{}, fmt.Errorf("booked room repository not configured")
	}
	booked, err := s.bookings.GetBookedRoom(ctx, id)
	if err != nil {
		return BookedRoom{}, mapRepoError(err)
	}
	return booked, nil
}

// CancelBooking deletes a booking made by the principal.
func (s *BookingService) CancelBooking(ctx context.Context, principal Principal, id int64) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return fmt.Errorf("booked room repository not configured")
	}

	logger := s.loggerWith(ctx, "CancelBooking",
		"principal", principal.Username,
		"booked_room_id", id,
	)

	existing, err := s.bookings.GetBookedRoom(ctx, id)
	if err == nil && existing.BookedBy != principal.Username {
		err = ErrUnauthorized
	}
	if err == nil {
		err = s.bookings.DeleteBookedRoom(ctx, id)
	}
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking cancelled")
	return nil
}

// ListBookedRooms returns every booking ordered by date, start time, then id.
func (s *BookingService) ListBookedRooms(ctx context.Context) ([]BookedRoom, error) {
	return s.list(ctx, "ListBookedRooms", "")
}

// ListBookedRoomsByUser returns the bookings made by username.
func (s *BookingService) ListBookedRoomsByUser(ctx context.Context, username string) ([]BookedRoom, error) {
	return s.list(ctx, "ListBookedRoomsByUser", strings.TrimSpace(username))
}

func (s *BookingService) list(ctx context.Context, operation, bookedBy string) (rooms []BookedRoom, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil {
		return []BookedRoom{}, nil
	}

	logger := s.loggerWith(ctx, operation, "booked_by", bookedBy)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list booked rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).DebugContext(ctx, "booked rooms listed")
	}()

	var raw []BookedRoom
	raw, err = s.bookings.ListBookedRooms(ctx, bookedBy)
	if err != nil {
		return
	}

	rooms = make([]BookedRoom, len(raw))
	copy(rooms, raw)
	sort.SliceStable(rooms, func(i, j int) bool {
		return slotLess(rooms[i].Date, rooms[i].StartTime, rooms[i].ID, rooms[j].Date, rooms[j].StartTime, rooms[j].ID)
	})
	return
}
