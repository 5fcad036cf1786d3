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
	"github.com/example/roomboard/internal/validation"
)

// RoomPostRepository captures the persistence operations needed by the room post service.
type RoomPostRepository interface {
	CreateRoomPost(ctx context.Context, post RoomPost) (RoomPost, error)
	GetRoomPost(ctx context.Context, id int64) (RoomPost, error)
	UpdateRoomPost(ctx context.Context, post RoomPost) (RoomPost, error)
	DeleteRoomPost(ctx context.Context, id int64) error
	ListRoomPosts(ctx context.Context, postedBy string) ([]RoomPost, error)
}

// RoomPostService orchestrates validation, ownership checks, and persistence for room posts.
type RoomPostService struct {
	posts  RoomPostRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewRoomPostService constructs a room post service with the provided dependencies.
func NewRoomPostService(posts RoomPostRepository, now func() time.Time) *RoomPostService {
	return NewRoomPostServiceWithLogger(posts, now, nil)
}

// NewRoomPostServiceWithLogger constructs a room post service with a specified logger.
func NewRoomPostServiceWithLogger(posts RoomPostRepository, now func() time.Time, logger *slog.Logger) *RoomPostService {
	if now == nil {
		now = time.Now
	}
	return &RoomPostService{posts: posts, now: now, logger: defaultLogger(logger)}
}

func (s *RoomPostService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomPostService", operation, attrs...)
}

// CreateRoomPost validates input and persists a post owned by the principal.
func (s *RoomPostService) CreateRoomPost(ctx context.Context, params CreateRoomPostParams) (post RoomPost, err error) {
	if s == nil {
		err = fmt.Errorf("RoomPostService is nil")
		return
	}
	if s.posts == nil {
		err = fmt.Errorf("room post repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoomPost", "principal", params.Principal.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room post", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_post_id", post.ID).InfoContext(ctx, "room post created")
	}()

	if params.Principal.Username == "" {
		err = ErrUnauthorized
		return
	}

	input := normalizeRoomPostInput(params.Input)
	if vErr := validateInput(input); vErr != nil {
		err = vErr
		return
	}

	now := s.now()
	post = RoomPost{
		Room:        input.Room,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		PostedBy:    params.Principal.Username,
		Description: input.Description,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Resources:   input.Resources,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	post, err = s.posts.CreateRoomPost(ctx, post)
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// UpdateRoomPost replaces the editable fields of a post owned by the principal.
func (s *RoomPostService) UpdateRoomPost(ctx context.Context, params UpdateRoomPostParams) (post RoomPost, err error) {
	if s == nil {
		err = fmt.Errorf("RoomPostService is nil")
		return
	}
	if s.posts == nil {
		err = fmt.Errorf("room post repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoomPost",
		"principal", params.Principal.Username,
		"room_post_id", params.PostID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room post", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room post updated")
	}()

	var existing RoomPost
	existing, err = s.posts.GetRoomPost(ctx, params.PostID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if existing.PostedBy != params.Principal.Username {
		err = ErrUnauthorized
		return
	}

	input := normalizeRoomPostInput(params.Input)
	if vErr := validateInput(input); vErr != nil {
		err = vErr
		return
	}

	updated := existing
	updated.Room = input.Room
	updated.Date = input.Date
	updated.StartTime = input.StartTime
	updated.EndTime = input.EndTime
	updated.Description = input.Description
	updated.Location = input.Location
	updated.Capacity = input.Capacity
	updated.Resources = input.Resources
	updated.UpdatedAt = s.now()

	post, err = s.posts.UpdateRoomPost(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// GetRoomPost returns a single post.
func (s *RoomPostService) GetRoomPost(ctx context.Context, id int64) (RoomPost, error) {
	if s == nil {
		return RoomPost{}, fmt.Errorf("RoomPostService is nil")
	}
	if s.posts == nil {
		return RoomPost{}, fmt.Errorf("room post repository not configured")
	}
	post, err := s.posts.GetRoomPost(ctx, id)
	if err != nil {
		return RoomPost{}, mapRepoError(err)
	}
	return post, nil
}

// DeleteRoomPost removes a post owned by the principal.
func (s *RoomPostService) DeleteRoomPost(ctx context.Context, principal Principal, id int64) error {
	if s == nil {
		return fmt.Errorf("RoomPostService is nil")
	}
	if s.posts == nil {
		return fmt.Errorf("room post repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoomPost",
		"principal", principal.Username,
		"room_post_id", id,
	)

	existing, err := s.posts.GetRoomPost(ctx, id)
	if err == nil && existing.PostedBy != principal.Username {
		err = ErrUnauthorized
	}
	if err == nil {
		err = s.posts.DeleteRoomPost(ctx, id)
	}
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room post", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room post deleted")
	return nil
}

// ListRoomPosts returns every post ordered by date, start time, then id.
func (s *RoomPostService) ListRoomPosts(ctx context.Context) ([]RoomPost, error) {
	return s.list(ctx, "ListRoomPosts", "")
}

// ListRoomPostsByUser returns the posts created by username.
func (s *RoomPostService) ListRoomPostsByUser(ctx context.Context, username string) ([]RoomPost, error) {
	return s.list(ctx, "ListRoomPostsByUser", strings.TrimSpace(username))
}

func (s *RoomPostService) list(ctx context.Context, operation, postedBy string) (posts []RoomPost, err error) {
	if s == nil {
		err = fmt.Errorf("RoomPostService is nil")
		return
	}
	if s.posts == nil {
		return []RoomPost{}, nil
	}

	logger := s.loggerWith(ctx, operation, "posted_by", postedBy)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list room posts", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(posts)).DebugContext(ctx, "room posts listed")
	}()

	var raw []RoomPost
	raw, err = s.posts.ListRoomPosts(ctx, postedBy)
	if err != nil {
		return
	}

	posts = make([]RoomPost, len(raw))
	copy(posts, raw)
	sort.SliceStable(posts, func(i, j int) bool {
		return slotLess(posts[i].Date, posts[i].StartTime, posts[i].ID, posts[j].Date, posts[j].StartTime, posts[j].ID)
	})
	return
}

func normalizeRoomPostInput(input RoomPostInput) RoomPostInput {
	input.Room = strings.TrimSpace(input.Room)
	input.Date = strings.TrimSpace(input.Date)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.Resources = strings.TrimSpace(input.Resources)
	return input
}

func validateInput(input any) *ValidationError {
	fields := validation.Struct(input)
	if fields == nil {
		return nil
	}
	vErr := &ValidationError{}
	vErr.merge(fields)
	return vErr
}

// slotLess orders by date, then start time, then id. Dates and clock values
// are fixed width so lexical comparison matches chronological order.
func slotLess(dateA, startA string, idA int64, dateB, startB string, idB int64) bool {
	if dateA != dateB {
		return dateA < dateB
	}
	if startA != startB {
		return startA < startB
	}
	return idA < idB
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return validationFailure("record", "record violates a storage constraint")
	}
	return err
}
