package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// RoomRequestRepository captures the persistence operations needed by the room request service.
type RoomRequestRepository interface {
	CreateRoomRequest(ctx context.Context, request RoomRequest) (RoomRequest, error)
	GetRoomRequest(ctx context.Context, id int64) (RoomRequest, error)
	UpdateRoomRequest(ctx context.Context, request RoomRequest) (RoomRequest, error)
	DeleteRoomRequest(ctx context.Context, id int64) error
	ListRoomRequests(ctx context.Context, requestedBy string) ([]RoomRequest, error)
}

// RoomRequestService manages requests for rooms.
type RoomRequestService struct {
	requests RoomRequestRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewRoomRequestService constructs a room request service.
func NewRoomRequestService(requests RoomRequestRepository, now func() time.Time) *RoomRequestService {
	return NewRoomRequestServiceWithLogger(requests, now, nil)
}

// NewRoomRequestServiceWithLogger constructs a room request service with a specified logger.
func NewRoomRequestServiceWithLogger(requests RoomRequestRepository, now func() time.Time, logger *slog.Logger) *RoomRequestService {
	if now == nil {
		now = time.Now
	}
	return &RoomRequestService{requests: requests, now: now, logger: defaultLogger(logger)}
}

func (s *RoomRequestService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomRequestService", operation, attrs...)
}

// CreateRoomRequest validates input and persists a request owned by the principal.
func (s *RoomRequestService) CreateRoomRequest(ctx context.Context, params CreateRoomRequestParams) (request RoomRequest, err error) {
	if s == nil {
		err = fmt.Errorf("RoomRequestService is nil")
		return
	}
	if s.requests == nil {
		err = fmt.Errorf("room request repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoomRequest", "principal", params.Principal.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room request", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_request_id", request.ID).InfoContext(ctx, "room request created")
	}()

	if params.Principal.Username == "" {
		err = ErrUnauthorized
		return
	}

	input := normalizeRoomRequestInput(params.Input)
	if vErr := validateInput(input); vErr != nil {
		err = vErr
		return
	}

	now := s.now()
	request, err = s.requests.CreateRoomRequest(ctx, RoomRequest{
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Description: input.Description,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Resources:   input.Resources,
		RequestedBy: params.Principal.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// UpdateRoomRequest replaces the editable fields of a request owned by the principal.
func (s *RoomRequestService) UpdateRoomRequest(ctx context.Context, params UpdateRoomRequestParams) (request RoomRequest, err error) {
	if s == nil {
		err = fmt.Errorf("RoomRequestService is nil")
		return
	}
	if s.requests == nil {
		err = fmt.Errorf("room request repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoomRequest",
		"principal", params.Principal.Username,
		"room_request_id", params.RequestID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room request", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room request updated")
	}()

	var existing RoomRequest
	existing, err = s.requests.GetRoomRequest(ctx, params.RequestID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if existing.RequestedBy != params.Principal.Username {
		err = ErrUnauthorized
		return
	}

	input := normalizeRoomRequestInput(params.Input)
	if vErr := validateInput(input); vErr != nil {
		err = vErr
		return
	}

	updated := existing
	updated.Date = input.Date
	updated.StartTime = input.StartTime
	updated.EndTime = input.EndTime
	updated.Description = input.Description
	updated.Location = input.Location
	updated.Capacity = input.Capacity
	updated.Resources = input.Resources
	updated.UpdatedAt = s.now()

	request, err = s.requests.UpdateRoomRequest(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// GetRoomRequest returns a single request.
func (s *RoomRequestService) GetRoomRequest(ctx context.Context, id int64) (RoomRequest, error) {
	if s == nil {
		return RoomRequest{}, fmt.Errorf("RoomRequestService is nil")
	}
	if s.requests == nil {
		return RoomRequest{}, fmt.Errorf("room request repository not configured")
	}
	request, err := s.requests.GetRoomRequest(ctx, id)
	if err != nil {
		return RoomRequest{}, mapRepoError(err)
	}
	return request, nil
}

// DeleteRoomRequest removes a request owned by the principal.
func (s *RoomRequestService) DeleteRoomRequest(ctx context.Context, principal Principal, id int64) error {
	if s == nil {
		return fmt.Errorf("RoomRequestService is nil")
	}
	if s.requests == nil {
		return fmt.Errorf("room request repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoomRequest",
		"principal", principal.Username,
		"room_request_id", id,
	)

	existing, err := s.requests.GetRoomRequest(ctx, id)
	if err == nil && existing.RequestedBy != principal.Username {
		err = ErrUnauthorized
	}
	if err == nil {
		err = s.requests.DeleteRoomRequest(ctx, id)
	}
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room request", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room request deleted")
	return nil
}

// ListRoomRequests returns every request ordered by date, start time, then id.
func (s *RoomRequestService) ListRoomRequests(ctx context.Context) ([]RoomRequest, error) {
	return s.list(ctx, "ListRoomRequests", "")
}

// ListRoomRequestsByUser returns the requests created by username.
func (s *RoomRequestService) ListRoomRequestsByUser(ctx context.Context, username string) ([]RoomRequest, error) {
	return s.list(ctx, "ListRoomRequestsByUser", strings.TrimSpace(username))
}

func (s *RoomRequestService) list(ctx context.Context, operation, requestedBy string) (requests []RoomRequest, err error) {
	if s == nil {
		err = fmt.Errorf("RoomRequestService is nil")
		return
	}
	if s.requests == nil {
		return []RoomRequest{}, nil
	}

	logger := s.loggerWith(ctx, operation, "requested_by", requestedBy)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list room requests", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(requests)).DebugContext(ctx, "room requests listed")
	}()

	var raw []RoomRequest
	raw, err = s.requests.ListRoomRequests(ctx, requestedBy)
	if err != nil {
		return
	}

	requests = make([]RoomRequest, len(raw))
	copy(requests, raw)
	sort.SliceStable(requests, func(i, j int) bool {
		return slotLess(requests[i].Date, requests[i].StartTime, requests[i].ID, requests[j].Date, requests[j].StartTime, requests[j].ID)
	})
	return
}

func normalizeRoomRequestInput(input RoomRequestInput) RoomRequestInput {
	input.Date = strings.TrimSpace(input.Date)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.Resources = strings.TrimSpace(input.Resources)
	return input
}
