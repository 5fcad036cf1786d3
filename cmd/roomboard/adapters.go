package main

import (
	"context"
	"time"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

// The application and persistence models for posts, requests, bookings,
// dashboard entries and sessions share one field layout, so the adapters
// convert them directly.

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	stored, err := a.repo.CreateUser(ctx, persistence.User{
		Username:     user.Username,
		PasswordHash: passwordHash,
		Email:        user.Email,
		FullName:     user.FullName,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUserCredentialsByUsername(ctx context.Context, username string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{User: toApplicationUser(stored), PasswordHash: stored.PasswordHash}, nil
}

func (a *userRepositoryAdapter) GetUserByUsername(ctx context.Context, username string) (application.User, error) {
	stored, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, persistence.Session(session))
	return application.Session(stored), err
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	return application.Session(stored), err
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	return application.Session(stored), err
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

type roomPostRepositoryAdapter struct {
	repo persistence.RoomPostRepository
}

func newRoomPostRepositoryAdapter(repo persistence.RoomPostRepository) *roomPostRepositoryAdapter {
	return &roomPostRepositoryAdapter{repo: repo}
}

func (a *roomPostRepositoryAdapter) CreateRoomPost(ctx context.Context, post application.RoomPost) (application.RoomPost, error) {
	stored, err := a.repo.CreateRoomPost(ctx, persistence.RoomPost(post))
	return application.RoomPost(stored), err
}

func (a *roomPostRepositoryAdapter) GetRoomPost(ctx context.Context, id int64) (application.RoomPost, error) {
	stored, err := a.repo.GetRoomPost(ctx, id)
	return application.RoomPost(stored), err
}

func (a *roomPostRepositoryAdapter) UpdateRoomPost(ctx context.Context, post application.RoomPost) (application.RoomPost, error) {
	stored, err := a.repo.UpdateRoomPost(ctx, persistence.RoomPost(post))
	return application.RoomPost(stored), err
}

func (a *roomPostRepositoryAdapter) DeleteRoomPost(ctx context.Context, id int64) error {
	return a.repo.DeleteRoomPost(ctx, id)
}

func (a *roomPostRepositoryAdapter) ListRoomPosts(ctx context.Context, postedBy string) ([]application.RoomPost, error) {
	models, err := a.repo.ListRoomPosts(ctx, postedBy)
	if err != nil {
		return nil, err
	}
	posts := make([]application.RoomPost, 0, len(models))
	for _, model := range models {
		posts = append(posts, application.RoomPost(model))
	}
	return posts, nil
}

type roomRequestRepositoryAdapter struct {
	repo persistence.RoomRequestRepository
}

func newRoomRequestRepositoryAdapter(repo persistence.RoomRequestRepository) *roomRequestRepositoryAdapter {
	return &roomRequestRepositoryAdapter{repo: repo}
}

func (a *roomRequestRepositoryAdapter) CreateRoomRequest(ctx context.Context, request application.RoomRequest) (application.RoomRequest, error) {
	stored, err := a.repo.CreateRoomRequest(ctx, persistence.RoomRequest(request))
	return application.RoomRequest(stored), err
}

func (a *roomRequestRepositoryAdapter) GetRoomRequest(ctx context.Context, id int64) (application.RoomRequest, error) {
	stored, err := a.repo.GetRoomRequest(ctx, id)
	return application.RoomRequest(stored), err
}

func (a *roomRequestRepositoryAdapter) UpdateRoomRequest(ctx context.Context, request application.RoomRequest) (application.RoomRequest, error) {
	stored, err := a.repo.UpdateRoomRequest(ctx, persistence.RoomRequest(request))
	return application.RoomRequest(stored), err
}

func (a *roomRequestRepositoryAdapter) DeleteRoomRequest(ctx context.Context, id int64) error {
	return a.repo.DeleteRoomRequest(ctx, id)
}

func (a *roomRequestRepositoryAdapter) ListRoomRequests(ctx context.Context, requestedBy string) ([]application.RoomRequest, error) {
	models, err := a.repo.ListRoomRequests(ctx, requestedBy)
	if err != nil {
		return nil, err
	}
	requests := make([]application.RoomRequest, 0, len(models))
	for _, model := range models {
		requests = append(requests, application.RoomRequest(model))
	}
	return requests, nil
}

type bookedRoomRepositoryAdapter struct {
	repo persistence.BookedRoomRepository
}

func newBookedRoomRepositoryAdapter(repo persistence.BookedRoomRepository) *bookedRoomRepositoryAdapter {
	return &bookedRoomRepositoryAdapter{repo: repo}
}

func (a *bookedRoomRepositoryAdapter) BookRoomPost(ctx context.Context, postID int64, bookedBy string, bookedAt time.Time) (application.BookedRoom, error) {
	stored, err := a.repo.BookRoomPost(ctx, postID, bookedBy, bookedAt)
	return application.BookedRoom(stored), err
}

func (a *bookedRoomRepositoryAdapter) GetBookedRoom(ctx context.Context, id int64) (application.BookedRoom, error) {
	stored, err := a.repo.GetBookedRoom(ctx, id)
	return application.BookedRoom(stored), err
}

func (a *bookedRoomRepositoryAdapter) ListBookedRooms(ctx context.Context, bookedBy string) ([]application.BookedRoom, error) {
	models, err := a.repo.ListBookedRooms(ctx, bookedBy)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.BookedRoom, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, application.BookedRoom(model))
	}
	return rooms, nil
}

func (a *bookedRoomRepositoryAdapter) DeleteBookedRoom(ctx context.Context, id int64) error {
	return a.repo.DeleteBookedRoom(ctx, id)
}

type dashboardRepositoryAdapter struct {
	repo persistence.DashboardRepository
}

func newDashboardRepositoryAdapter(repo persistence.DashboardRepository) *dashboardRepositoryAdapter {
	return &dashboardRepositoryAdapter{repo: repo}
}

func (a *dashboardRepositoryAdapter) CreateDashboardEntry(ctx context.Context, entry application.DashboardEntry) (application.DashboardEntry, error) {
	stored, err := a.repo.CreateDashboardEntry(ctx, persistence.DashboardEntry(entry))
	return application.DashboardEntry(stored), err
}

func (a *dashboardRepositoryAdapter) GetDashboardEntry(ctx context.Context, id int64) (application.DashboardEntry, error) {
	stored, err := a.repo.GetDashboardEntry(ctx, id)
	return application.DashboardEntry(stored), err
}

func (a *dashboardRepositoryAdapter) ListDashboardEntries(ctx context.Context, username, day string) ([]application.DashboardEntry, error) {
	models, err := a.repo.ListDashboardEntries(ctx, username, day)
	if err != nil {
		return nil, err
	}
	entries := make([]application.DashboardEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, application.DashboardEntry(model))
	}
	return entries, nil
}

func (a *dashboardRepositoryAdapter) DeleteDashboardEntry(ctx context.Context, id int64) error {
	return a.repo.DeleteDashboardEntry(ctx, id)
}
