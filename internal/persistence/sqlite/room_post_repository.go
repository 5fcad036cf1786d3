package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/roomboard/internal/persistence"
)

// RoomPostRepository implements persistence.RoomPostRepository using SQLite.
type RoomPostRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomPostRepository creates a new SQLite room post repository.
func NewRoomPostRepository(pool *ConnectionPool) *RoomPostRepository {
	return &RoomPostRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const selectRoomPost = `
	SELECT id, room, date, start_time, end_time, posted_by, description, location, capacity, resources, created_at, updated_at
	FROM room_posts`

// CreateRoomPost inserts a post and returns it with its assigned id.
func (r *RoomPostRepository) CreateRoomPost(ctx context.Context, post persistence.RoomPost) (persistence.RoomPost, error) {
	if post.Capacity <= 0 || strings.TrimSpace(post.PostedBy) == "" {
		return persistence.RoomPost{}, persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		INSERT INTO room_posts (room, date, start_time, end_time, posted_by, description, location, capacity, resources, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.Room,
		post.Date,
		post.StartTime,
		post.EndTime,
		post.PostedBy,
		post.Description,
		post.Location,
		post.Capacity,
		post.Resources,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
	)
	if err != nil {
		return persistence.RoomPost{}, r.mapper.MapError(err)
	}
	if post.ID, err = result.LastInsertId(); err != nil {
		return persistence.RoomPost{}, fmt.Errorf("failed to read room post id: %w", err)
	}
	return post, nil
}

// UpdateRoomPost overwrites the editable columns of an existing post.
func (r *RoomPostRepository) UpdateRoomPost(ctx context.Context, post persistence.RoomPost) (persistence.RoomPost, error) {
	if post.Capacity <= 0 {
		return persistence.RoomPost{}, persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE room_posts
		SET room = ?, date = ?, start_time = ?, end_time = ?, description = ?, location = ?, capacity = ?, resources = ?, updated_at = ?
		WHERE id = ?`,
		post.Room,
		post.Date,
		post.StartTime,
		post.EndTime,
		post.Description,
		post.Location,
		post.Capacity,
		post.Resources,
		formatTime(post.UpdatedAt),
		post.ID,
	)
	if err != nil {
		return persistence.RoomPost{}, r.mapper.MapError(err)
	}
	if err := requireAffected(result); err != nil {
		return persistence.RoomPost{}, err
	}
	return r.GetRoomPost(ctx, post.ID)
}

// GetRoomPost retrieves a post by id.
func (r *RoomPostRepository) GetRoomPost(ctx context.Context, id int64) (persistence.RoomPost, error) {
	post, err := scanRoomPost(r.helper.QueryRow(ctx, selectRoomPost+` WHERE id = ?`, id))
	if err != nil {
		return persistence.RoomPost{}, r.mapper.MapError(err)
	}
	return post, nil
}

// ListRoomPosts returns posts ordered by date, start time and id. A non-empty
// postedBy restricts the result to that member.
func (r *RoomPostRepository) ListRoomPosts(ctx context.Context, postedBy string) ([]persistence.RoomPost, error) {
	query := selectRoomPost
	var args []any
	if postedBy != "" {
		query += ` WHERE posted_by = ?`
		args = append(args, postedBy)
	}
	query += ` ORDER BY date ASC, start_time ASC, id ASC`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	posts := []persistence.RoomPost{}
	for rows.Next() {
		post, err := scanRoomPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return posts, nil
}

// DeleteRoomPost removes a post. Deleting a missing post returns ErrNotFound.
func (r *RoomPostRepository) DeleteRoomPost(ctx context.Context, id int64) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM room_posts WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanRoomPost(row rowScanner) (persistence.RoomPost, error) {
	var (
		post                 persistence.RoomPost
		createdAt, updatedAt string
	)
	err := row.Scan(
		&post.ID,
		&post.Room,
		&post.Date,
		&post.StartTime,
		&post.EndTime,
		&post.PostedBy,
		&post.Description,
		&post.Location,
		&post.Capacity,
		&post.Resources,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.RoomPost{}, err
	}
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.RoomPost{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if post.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.RoomPost{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return post, nil
}
