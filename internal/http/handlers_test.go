package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/roomboard/internal/application"
)

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

type fakeAuthService struct {
	registered []application.RegisterParams
	revoked    []string
	err        error
}

func (f *fakeAuthService) Register(ctx context.Context, params application.RegisterParams) (application.User, error) {
	if f.err != nil {
		return application.User{}, f.err
	}
	f.registered = append(f.registered, params)
	return application.User{ID: 1, Username: params.Username}, nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if params.Username != "alice" || params.Password != "correct horse" {
		return application.AuthenticateResult{}, application.ErrInvalidCredentials
	}
	return application.AuthenticateResult{
		User: application.User{ID: 1, Username: "alice"},
		Session: application.Session{
			ID: "s1", Username: "alice", Token: "good",
			ExpiresAt: time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC),
		},
	}, nil
}

func (f *fakeAuthService) RevokeSession(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

type fakeRoomPostService struct {
	posts  []application.RoomPost
	nextID int64
}

func (f *fakeRoomPostService) CreateRoomPost(ctx context.Context, params application.CreateRoomPostParams) (application.RoomPost, error) {
	if params.Input.Room == "" {
		return application.RoomPost{}, &application.ValidationError{FieldErrors: map[string]string{"room": "room is required"}}
	}
	f.nextID++
	post := application.RoomPost{ID: f.nextID, Room: params.Input.Room, Date: params.Input.Date, PostedBy: params.Principal.Username, Capacity: params.Input.Capacity}
	f.posts = append(f.posts, post)
	return post, nil
}

func (f *fakeRoomPostService) UpdateRoomPost(ctx context.Context, params application.UpdateRoomPostParams) (application.RoomPost, error) {
	for i, post := range f.posts {
		if post.ID == params.PostID {
			if post.PostedBy != params.Principal.Username {
				return application.RoomPost{}, application.ErrUnauthorized
			}
			f.posts[i].Capacity = params.Input.Capacity
			return f.posts[i], nil
		}
	}
	return application.RoomPost{}, application.ErrNotFound
}

func (f *fakeRoomPostService) GetRoomPost(ctx context.Context, id int64) (application.RoomPost, error) {
	for _, post := range f.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return application.RoomPost{}, application.ErrNotFound
}

func (f *fakeRoomPostService) DeleteRoomPost(ctx context.Context, principal application.Principal, id int64) error {
	for i, post := range f.posts {
		if post.ID == id {
			if post.PostedBy != principal.Username {
				return application.ErrUnauthorized
			}
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return application.ErrNotFound
}

func (f *fakeRoomPostService) ListRoomPosts(ctx context.Context) ([]application.RoomPost, error) {
	return f.posts, nil
}

func (f *fakeRoomPostService) ListRoomPostsByUser(ctx context.Context, username string) ([]application.RoomPost, error) {
	var out []application.RoomPost
	for _, post := range f.posts {
		if post.PostedBy == username {
			out = append(out, post)
		}
	}
	return out, nil
}

type fakeDashboardService struct {
	lastDay string
}

func (f *fakeDashboardService) AddEntry(ctx context.Context, params application.AddDashboardEntryParams) (application.DashboardEntry, error) {
	return application.DashboardEntry{ID: 9, Username: params.Principal.Username, Day: params.Input.Day}, nil
}

func (f *fakeDashboardService) ListEntries(ctx context.Context, username, day string) ([]application.DashboardEntry, error) {
	f.lastDay = day
	return nil, nil
}

func (f *fakeDashboardService) DeleteEntry(ctx context.Context, principal application.Principal, id int64) error {
	return application.ErrNotFound
}

type fakeBookingService struct {
	posts *fakeRoomPostService
}

func (f *fakeBookingService) BookRoom(ctx context.Context, params application.BookRoomParams) (application.BookedRoom, error) {
	post, err := f.posts.GetRoomPost(ctx, params.RoomPostID)
	if err != nil {
		return application.BookedRoom{}, err
	}
	if post.PostedBy == params.Principal.Username {
		return application.BookedRoom{}, &application.ValidationError{FieldErrors: map[string]string{"roomPostId": "you cannot book your own room post"}}
	}
	if err := f.posts.DeleteRoomPost(ctx, application.Principal{Username: post.PostedBy}, post.ID); err != nil {
		return application.BookedRoom{}, err
	}
	return application.BookedRoom{ID: 1, RoomPostID: post.ID, Room: post.Room, PostedBy: post.PostedBy, BookedBy: params.Principal.Username}, nil
}

func (f *fakeBookingService) GetBookedRoom(ctx context.Context, id int64) (application.BookedRoom, error) {
	return application.BookedRoom{}, application.ErrNotFound
}

func (f *fakeBookingService) CancelBooking(ctx context.Context, principal application.Principal, id int64) error {
	return application.ErrUnauthorized
}

func (f *fakeBookingService) ListBookedRooms(ctx context.Context) ([]application.BookedRoom, error) {
	return nil, nil
}

func (f *fakeBookingService) ListBookedRoomsByUser(ctx context.Context, username string) ([]application.BookedRoom, error) {
	return nil, nil
}

type testServer struct {
	handler   http.Handler
	auth      *fakeAuthService
	posts     *fakeRoomPostService
	dashboard *fakeDashboardService
}

func newTestServer() testServer {
	auth := &fakeAuthService{}
	posts := &fakeRoomPostService{}
	dashboard := &fakeDashboardService{}
	validator := fakeSessionValidator{tokens: map[string]application.SessionInfo{
		"good": {Principal: application.Principal{Username: "alice"}, ExpiresAt: time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)},
		"bob":  {Principal: application.Principal{Username: "bob"}},
	}}
	handler := NewRouter(RouterConfig{
		Auth:      NewAuthHandler(auth, false, nil),
		RoomPosts: NewRoomPostHandler(posts, nil),
		Bookings:  NewBookedRoomHandler(&fakeBookingService{posts: posts}, nil),
		Dashboard: NewDashboardHandler(dashboard, nil),
		Sessions:  validator,
	})
	return testServer{handler: handler, auth: auth, posts: posts, dashboard: dashboard}
}

func (s testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	t.Run("login issues session token via cookie and header", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		req.SetBasicAuth("alice", "correct horse")
		recorder := httptest.NewRecorder()
		srv.handler.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "good", recorder.Header().Get("X-Session-Token"))
		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		var body loginResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "alice", body.Username)
		assert.Equal(t, "2024-04-30T09:00:00Z", body.ExpiresAt)
	})

	t.Run("login rejects bad or missing credentials", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		req.SetBasicAuth("alice", "wrong")
		recorder := httptest.NewRecorder()
		srv.handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "AUTH_INVALID_CREDENTIALS", decodeError(t, recorder).ErrorCode)

		recorder = srv.do(http.MethodGet, "/api/auth/login", "", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.NotEmpty(t, recorder.Header().Get("WWW-Authenticate"))
	})

	t.Run("register returns 201 and maps duplicates to 409", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		recorder := srv.do(http.MethodPost, "/api/auth/register", "", `{"username":"carol","password":"long enough"}`)
		assert.Equal(t, http.StatusCreated, recorder.Code)
		require.Len(t, srv.auth.registered, 1)

		srv.auth.err = application.ErrAlreadyExists
		recorder = srv.do(http.MethodPost, "/api/auth/register", "", `{"username":"carol","password":"long enough"}`)
		assert.Equal(t, http.StatusConflict, recorder.Code)

		recorder = srv.do(http.MethodPost, "/api/auth/register", "", `{`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("check reports the live session", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		recorder := srv.do(http.MethodGet, "/api/auth/check", "good", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		var body checkResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "alice", body.Username)

		assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/api/auth/check", "", "").Code)
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		recorder := srv.do(http.MethodPost, "/api/auth/logout", "good", "")
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, []string{"good"}, srv.auth.revoked)
	})
}

func TestRoomPostHandlers(t *testing.T) {
	t.Parallel()

	t.Run("owner comes from the session and lists are arrays", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		assert.Equal(t, "[]\n", srv.do(http.MethodGet, "/api/profRoomBook/roomPost", "good", "").Body.String())

		recorder := srv.do(http.MethodPost, "/api/profRoomBook/roomPost", "good",
			`{"room":"101","date":"2024-05-01","capacity":30,"postedBy":"mallory"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)
		var created roomPostDTO
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
		assert.Equal(t, "alice", created.PostedBy)

		recorder = srv.do(http.MethodGet, "/api/profRoomBook/roomPost/user/alice", "bob", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		var mine []roomPostDTO
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&mine))
		require.Len(t, mine, 1)
		assert.Equal(t, created.ID, mine[0].ID)
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer()
		srv.do(http.MethodPost, "/api/profRoomBook/roomPost", "good", `{"room":"101","capacity":1}`)

		recorder := srv.do(http.MethodPost, "/api/profRoomBook/roomPost", "good", `{"capacity":1}`)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Equal(t, "room is required", decodeError(t, recorder).Errors["room"])

		assert.Equal(t, http.StatusForbidden, srv.do(http.MethodDelete, "/api/profRoomBook/roomPost/1", "bob", "").Code)
		assert.Equal(t, http.StatusForbidden, srv.do(http.MethodPut, "/api/profRoomBook/roomPost/1", "bob", `{"capacity":2}`).Code)
		assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/api/profRoomBook/roomPost/abc", "good", "").Code)
		assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, "/api/profRoomBook/roomPost/1", "good", "").Code)
		assert.Equal(t, http.StatusNotFound, srv.do(http.MethodDelete, "/api/profRoomBook/roomPost/1", "good", "").Code)
		assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/api/profRoomBook/roomPost", "", "").Code)
	})
}

func TestBookedRoomHandlers(t *testing.T) {
	t.Parallel()

	srv := newTestServer()
	srv.do(http.MethodPost, "/api/profRoomBook/roomPost", "good", `{"room":"204","capacity":10}`)

	recorder := srv.do(http.MethodPost, "/api/BookedRoom/book", "good", `{"roomPostId":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, decodeError(t, recorder).Errors, "roomPostId")

	recorder = srv.do(http.MethodPost, "/api/BookedRoom/book", "bob", `{"roomPostId":1}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var booked bookedRoomDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&booked))
	assert.Equal(t, "bob", booked.BookedBy)
	assert.Equal(t, "alice", booked.PostedBy)
	assert.Empty(t, srv.posts.posts)

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodPost, "/api/BookedRoom/book", "bob", `{"roomPostId":1}`).Code)
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodDelete, "/api/BookedRoom/1", "good", "").Code)
	assert.Equal(t, "[]\n", srv.do(http.MethodGet, "/api/BookedRoom/user/bob", "bob", "").Body.String())
}

func TestDashboardHandlers(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	recorder := srv.do(http.MethodPost, "/api/dashboard/add", "good", `{"room":"101","day":"Monday"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var entry dashboardEntryDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&entry))
	assert.Equal(t, "alice", entry.Username)

	recorder = srv.do(http.MethodGet, "/api/dashboard/user/alice?day=Friday", "good", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Friday", srv.dashboard.lastDay)
	assert.Equal(t, "[]\n", recorder.Body.String())

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodDelete, "/api/dashboard/9", "good", "").Code)
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/api", normalizePrefix(""))
	assert.Equal(t, "/v1", normalizePrefix("v1/"))
	assert.Equal(t, "", normalizePrefix("/"))
}
