package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

// BookedRoomRepository implements persistence.BookedRoomRepository using SQLite.
type BookedRoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewBookedRoomRepository creates a new SQLite booked room repository.
func NewBookedRoomRepository(pool *ConnectionPool, retry RetryConfig) *BookedRoomRepository {
	return &BookedRoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(retry),
	}
}

const selectBookedRoom = `
	SELECT id, room_post_id, room, date, start_time, end_time, posted_by, description, location, capacity, resources, booked_by, booked_at
	FROM booked_rooms`

// BookRoomPost copies the post into booked_rooms and deletes it in one
// transaction. A post that is already gone yields ErrNotFound, so of two
// concurrent bookings exactly one succeeds.
func (r *BookedRoomRepository) BookRoomPost(ctx context.Context, postID int64, bookedBy string, bookedAt time.Time) (persistence.BookedRoom, error) {
	if bookedBy == "" {
		return persistence.BookedRoom{}, persistence.ErrConstraintViolation
	}

	var booked persistence.BookedRoom
	err := r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			post, err := scanRoomPost(tx.QueryRowContext(ctx, selectRoomPost+` WHERE id = ?`, postID))
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return persistence.ErrNotFound
				}
				return err
			}
			if post.PostedBy == bookedBy {
				return persistence.ErrSelfBooking
			}

			result, err := tx.ExecContext(ctx, `
				INSERT INTO booked_rooms (room_post_id, room, date, start_time, end_time, posted_by, description, location, capacity, resources, booked_by, booked_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				post.ID,
				post.Room,
				post.Date,
				post.StartTime,
				post.EndTime,
				post.PostedBy,
				post.Description,
				post.Location,
				post.Capacity,
				post.Resources,
				bookedBy,
				formatTime(bookedAt),
			)
			if err != nil {
				return err
			}
			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read booked room id: %w", err)
			}

			deleted, err := tx.ExecContext(ctx, `DELETE FROM room_posts WHERE id = ?`, post.ID)
			if err != nil {
				return err
			}
			if err := requireAffected(deleted); err != nil {
				return err
			}

			booked = persistence.BookedRoom{
				ID:          id,
				RoomPostID:  post.ID,
				Room:        post.Room,
				Date:        post.Date,
				StartTime:   post.StartTime,
				EndTime:     post.EndTime,
				PostedBy:    post.PostedBy,
				Description: post.Description,
				Location:    post.Location,
				Capacity:    post.Capacity,
				Resources:   post.Resources,
				BookedBy:    bookedBy,
				BookedAt:    bookedAt.UTC(),
			}
			return nil
		})
	})
	if err != nil {
		return persistence.BookedRoom{}, r.mapper.MapError(err)
	}
	return booked, nil
}

// GetBookedRoom retrieves a booking by id.
func (r *BookedRoomRepository) GetBookedRoom(ctx context.Context, id int64) (persistence.BookedRoom, error) {
	booked, err := scanBookedRoom(r.helper.QueryRow(ctx, selectBookedRoom+` WHERE id = ?`, id))
	if err != nil {
		return persistence.BookedRoom{}, r.mapper.MapError(err)
	}
	return booked, nil
}

// ListBookedRooms returns bookings ordered by date, start time and id. A
// non-empty bookedBy restricts the result to that member.
func (r *BookedRoomRepository) ListBookedRooms(ctx context.Context, bookedBy string) ([]persistence.BookedRoom, error) {
	query := selectBookedRoom
	var args []any
	if bookedBy != "" {
		query += ` WHERE booked_by = ?`
		args = append(args, bookedBy)
	}
	query += ` ORDER BY date ASC, start_time ASC, id ASC`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	booked := []persistence.BookedRoom{}
	for rows.Next() {
		record, err := scanBookedRoom(rows)
		if err != nil {
			return nil, err
		}
		booked = append(booked, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return booked, nil
}

// DeleteBookedRoom removes a booking. The original post is not restored.
func (r *BookedRoomRepository) DeleteBookedRoom(ctx context.Context, id int64) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM booked_rooms WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanBookedRoom(row rowScanner) (persistence.BookedRoom, error) {
	var (
		booked   persistence.BookedRoom
		bookedAt string
	)
	err := row.Scan(
		&booked.ID,
		&booked.RoomPostID,
		&booked.Room,
		&booked.Date,
		&booked.StartTime,
		&booked.EndTime,
		&booked.PostedBy,
		&booked.Description,
		&booked.Location,
		&booked.Capacity,
		&booked.Resources,
		&booked.BookedBy,
		&bookedAt,
	)
	if err != nil {
		return persistence.BookedRoom{}, err
	}
	if booked.BookedAt, err = parseTime(bookedAt); err != nil {
		return persistence.BookedRoom{}, fmt.Errorf("failed to parse booked_at: %w", err)
	}
	return booked, nil
}
