package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/roomboard/internal/persistence"
)

// RoomRequestRepository implements persistence.RoomRequestRepository using SQLite.
type RoomRequestRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRequestRepository creates a new SQLite room request repository.
func NewRoomRequestRepository(pool *ConnectionPool) *RoomRequestRepository {
	return &RoomRequestRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const selectRoomRequest = `
	SELECT id, date, start_time, end_time, description, location, capacity, resources, requested_by, created_at, updated_at
	FROM room_requests`

// CreateRoomRequest inserts a request and returns it with its assigned id.
func (r *RoomRequestRepository) CreateRoomRequest(ctx context.Context, request persistence.RoomRequest) (persistence.RoomRequest, error) {
	if request.Capacity <= 0 || strings.TrimSpace(request.RequestedBy) == "" {
		return persistence.RoomRequest{}, persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		INSERT INTO room_requests (date, start_time, end_time, description, location, capacity, resources, requested_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.Date,
		request.StartTime,
		request.EndTime,
		request.Description,
		request.Location,
		request.Capacity,
		request.Resources,
		request.RequestedBy,
		formatTime(request.CreatedAt),
		formatTime(request.UpdatedAt),
	)
	if err != nil {
		return persistence.RoomRequest{}, r.mapper.MapError(err)
	}
	if request.ID, err = result.LastInsertId(); err != nil {
		return persistence.RoomRequest{}, fmt.Errorf("failed to read room request id: %w", err)
	}
	return request, nil
}

// UpdateRoomRequest overwrites the editable columns of an existing request.
func (r *RoomRequestRepository) UpdateRoomRequest(ctx context.Context, request persistence.RoomRequest) (persistence.RoomRequest, error) {
	if request.Capacity <= 0 {
		return persistence.RoomRequest{}, persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE room_requests
		SET date = ?, start_time = ?, end_time = ?, description = ?, location = ?, capacity = ?, resources = ?, updated_at = ?
		WHERE id = ?`,
		request.Date,
		request.StartTime,
		request.EndTime,
		request.Description,
		request.Location,
		request.Capacity,
		request.Resources,
		formatTime(request.UpdatedAt),
		request.ID,
	)
	if err != nil {
		return persistence.RoomRequest{}, r.mapper.MapError(err)
	}
	if err := requireAffected(result); err != nil {
		return persistence.RoomRequest{}, err
	}
	return r.GetRoomRequest(ctx, request.ID)
}

// GetRoomRequest retrieves a request by id.
func (r *RoomRequestRepository) GetRoomRequest(ctx context.Context, id int64) (persistence.RoomRequest, error) {
	request, err := scanRoomRequest(r.helper.QueryRow(ctx, selectRoomRequest+` WHERE id = ?`, id))
	if err != nil {
		return persistence.RoomRequest{}, r.mapper.MapError(err)
	}
	return request, nil
}

// ListRoomRequests returns requests ordered by date, start time and id.
func (r *RoomRequestRepository) ListRoomRequests(ctx context.Context, requestedBy string) ([]persistence.RoomRequest, error) {
	query := selectRoomRequest
	var args []any
	if requestedBy != "" {
		query += ` WHERE requested_by = ?`
		args = append(args, requestedBy)
	}
	query += ` ORDER BY date ASC, start_time ASC, id ASC`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	requests := []persistence.RoomRequest{}
	for rows.Next() {
		request, err := scanRoomRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return requests, nil
}

// DeleteRoomRequest removes a request. Deleting a missing request returns ErrNotFound.
func (r *RoomRequestRepository) DeleteRoomRequest(ctx context.Context, id int64) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM room_requests WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanRoomRequest(row rowScanner) (persistence.RoomRequest, error) {
	var (
		request              persistence.RoomRequest
		createdAt, updatedAt string
	)
	err := row.Scan(
		&request.ID,
		&request.Date,
		&request.StartTime,
		&request.EndTime,
		&request.Description,
		&request.Location,
		&request.Capacity,
		&request.Resources,
		&request.RequestedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.RoomRequest{}, err
	}
	if request.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.RoomRequest{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if request.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.RoomRequest{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return request, nil
}
