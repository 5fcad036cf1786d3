package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", WithTimeout(5*time.Second)), &calls
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

var aliceSession = &Session{Username: "alice", Token: "tok-alice"}

func validPost() RoomPostInput {
	return RoomPostInput{
		Room:        "101",
		Date:        "2024-05-01",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Description: "Lecture",
		Location:    "Bldg A",
		Capacity:    30,
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "correct horse" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error_code": "AUTH_INVALID_CREDENTIALS", "message": "nope"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"username": "alice", "token": "tok-alice", "expiresAt": "2024-04-30T09:00:00Z"})
	})

	session, err := c.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "tok-alice", session.Token)
	assert.Equal(t, time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC), session.ExpiresAt)

	_, err = c.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", serverErr.Code)
}

func TestAuthenticatedCallsCarryBearerToken(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-alice", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, []any{})
		}
	})

	posts, err := c.ListRoomPosts(context.Background(), aliceSession)
	require.NoError(t, err)
	assert.Empty(t, posts)

	session := &Session{Username: "alice", Token: "tok-alice"}
	require.NoError(t, c.Logout(context.Background(), session))
	assert.False(t, session.Live())

	_, err = c.ListRoomPosts(context.Background(), session)
	require.ErrorIs(t, err, ErrNoSession)
	_, err = c.ListRoomPosts(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNormalization(t *testing.T) {
	t.Parallel()

	t.Run("accepts nested users.username", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "room": "101", "date": "2024-05-01", "startTime": "10:00", "endTime": "11:00", "postedBy": "alice", "capacity": 30},
				{"id": 2, "room": "102", "date": "2024-05-02", "startTime": "10:00", "endTime": "11:00", "users": map[string]string{"username": "carol"}, "capacity": 10},
			})
		})

		posts, err := c.ListRoomPosts(context.Background(), aliceSession)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "alice", posts[0].PostedBy)
		assert.Equal(t, "carol", posts[1].PostedBy)
	})

	t.Run("fails loudly on a missing owner", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 7, "date": "2024-05-01", "startTime": "10:00", "endTime": "11:00", "capacity": 3},
			})
		})

		_, err := c.ListRoomRequests(context.Background(), aliceSession)
		require.ErrorIs(t, err, ErrMalformedRecord)
		assert.Contains(t, err.Error(), "requestedBy")
	})

	t.Run("rejects records without id", func(t *testing.T) {
		t.Parallel()

		_, err := rawBookedRoom{Room: "101", Date: "2024-05-01", PostedBy: "alice", BookedBy: "bob"}.normalize()
		require.ErrorIs(t, err, ErrMalformedRecord)
	})
}

func TestServerErrorMapping(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profRoomBook/roomPost/1":
			writeJSON(w, http.StatusForbidden, map[string]string{"error_code": "AUTH_FORBIDDEN", "message": "you may not modify this resource"})
		case "/api/profRoomBook/roomPost/2":
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "the requested resource was not found"})
		case "/api/auth/register":
			writeJSON(w, http.StatusConflict, map[string]string{"message": "the resource already exists"})
		case "/api/BookedRoom/book":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "the submitted fields are invalid",
				"errors":  map[string]string{"roomPostId": "you cannot book your own room post"},
			})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	err := c.DeleteRoomPost(ctx, aliceSession, 1)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.DeleteRoomPost(ctx, aliceSession, 2), ErrNotFound)

	_, err = c.Register(ctx, RegisterInput{Username: "alice", Password: "long enough"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = c.BookRoomPost(ctx, aliceSession, 5)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnprocessableEntity, serverErr.StatusCode)
	assert.Equal(t, "you cannot book your own room post", serverErr.FieldErrors["roomPostId"])

	err = c.CancelBooking(ctx, aliceSession, 3)
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
}

func TestValidationFailureNeverReachesNetwork(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{})
	})
	ctx := context.Background()

	input := validPost()
	input.Room = ""
	input.EndTime = "09:00"
	_, err := c.CreateRoomPost(ctx, aliceSession, input)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "room")
	assert.Contains(t, vErr.FieldErrors, "endTime")

	_, err = c.AddDashboardEntry(ctx, aliceSession, DashboardEntryInput{Room: "101", Subject: "Math", Date: "2024-05-06", StartTime: "09:00", EndTime: "10:00", Day: "Funday"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "day")

	_, err = c.BookRoomPost(ctx, aliceSession, 0)
	require.ErrorAs(t, err, &vErr)

	assert.Equal(t, int32(0), calls.Load())
}

func TestCreateAndDashboardRequests(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/profRoomBook/roomPost":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body["id"] = 11
			body["postedBy"] = "alice"
			writeJSON(w, http.StatusCreated, body)
		case r.Method == http.MethodPost && r.URL.Path == "/api/dashboard/add":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Monday", body["day"])
			body["id"] = 3
			body["username"] = "alice"
			writeJSON(w, http.StatusCreated, body)
		case r.URL.Path == "/api/dashboard/user/alice":
			assert.Equal(t, "Friday", r.URL.Query().Get("day"))
			writeJSON(w, http.StatusOK, []any{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	post, err := c.CreateRoomPost(ctx, aliceSession, validPost())
	require.NoError(t, err)
	assert.Equal(t, int64(11), post.ID)
	assert.Equal(t, "Bldg A", post.Location)
	assert.Equal(t, 30, post.Capacity)

	entry, err := c.AddDashboardEntry(ctx, aliceSession, DashboardEntryInput{Room: "101", Subject: "Math", Date: "2024-05-06", StartTime: "09:00", EndTime: "10:00", Day: "monday"})
	require.NoError(t, err)
	assert.Equal(t, "Monday", entry.Day)

	entries, err := c.ListDashboardEntries(ctx, aliceSession, "alice", "Friday")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base)
	_, err := c.ListBookedRooms(context.Background(), aliceSession)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "list booked rooms", netErr.Op)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", UserMessage("fetch", nil))
	assert.Equal(t, "failed to fetch", UserMessage("fetch", &NetworkError{Op: "x", Err: errors.New("refused")}))
	assert.Equal(t, "failed to submit", UserMessage("submit", &ValidationError{FieldErrors: map[string]string{"room": "room is required"}}))
	assert.Equal(t, "failed to delete", UserMessage("delete", &ServerError{StatusCode: http.StatusNotFound}))
	assert.Equal(t, "failed to fetch: please log in", UserMessage("fetch", ErrNoSession))
}

func TestUpdateAndGetRequests(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-alice", r.Header.Get("Authorization"))
		switch r.Method + " " + r.URL.Path {
		case "PUT /api/profRoomBook/roomPost/4":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "102", body["room"])
			assert.Equal(t, "12:00", body["endTime"])
			assert.NotContains(t, body, "postedBy")
			writeJSON(w, http.StatusOK, map[string]any{
				"id": 4, "room": "102", "date": "2024-05-01", "startTime": "10:00", "endTime": "12:00",
				"users": map[string]string{"username": "alice"}, "description": "Lecture", "location": "Bldg A", "capacity": 30,
			})
		case "GET /api/profRoomBook/roomRequest/5":
			writeJSON(w, http.StatusOK, map[string]any{
				"id": 5, "date": "2024-05-02", "startTime": "13:00", "endTime": "14:00",
				"users": map[string]string{"username": "bob"}, "description": "Exam", "location": "Bldg C", "capacity": 40,
			})
		case "PUT /api/profRoomBook/roomRequest/5":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(45), body["capacity"])
			writeJSON(w, http.StatusOK, map[string]any{
				"id": 5, "date": "2024-05-02", "startTime": "13:00", "endTime": "14:00",
				"requestedBy": "alice", "description": "Exam", "location": "Bldg C", "capacity": 45,
			})
		case "GET /api/BookedRoom/6":
			writeJSON(w, http.StatusOK, map[string]any{
				"id": 6, "roomPostId": 4, "room": "102", "date": "2024-05-01", "startTime": "10:00", "endTime": "12:00",
				"postedBy": "bob", "users": map[string]string{"username": "alice"}, "location": "Bldg A", "capacity": 30,
			})
		case "GET /api/BookedRoom/404":
			writeJSON(w, http.StatusNotFound, map[string]string{"error_code": "NOT_FOUND", "message": "missing"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	input := validPost()
	input.Room = "102"
	input.EndTime = "12:00"
	post, err := c.UpdateRoomPost(ctx, aliceSession, 4, input)
	require.NoError(t, err)
	assert.Equal(t, RoomPost{
		ID: 4, Room: "102", Date: "2024-05-01", StartTime: "10:00", EndTime: "12:00",
		PostedBy: "alice", Description: "Lecture", Location: "Bldg A", Capacity: 30,
	}, post)

	request, err := c.GetRoomRequest(ctx, aliceSession, 5)
	require.NoError(t, err)
	assert.Equal(t, "bob", request.RequestedBy)
	assert.Equal(t, 40, request.Capacity)

	updated, err := c.UpdateRoomRequest(ctx, aliceSession, 5, RoomRequestInput{
		Date: request.Date, StartTime: request.StartTime, EndTime: request.EndTime,
		Description: request.Description, Location: request.Location, Capacity: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Capacity)
	assert.Equal(t, "alice", updated.RequestedBy)

	booked, err := c.GetBookedRoom(ctx, aliceSession, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(4), booked.RoomPostID)
	assert.Equal(t, "alice", booked.BookedBy)
	assert.Equal(t, "bob", booked.PostedBy)

	_, err = c.GetBookedRoom(ctx, aliceSession, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	invalid := validPost()
	invalid.StartTime = "9:00"
	_, err = c.UpdateRoomPost(ctx, aliceSession, 4, invalid)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, int32(5), calls.Load())
}

func TestWithTimeoutLeavesSharedHTTPClientAlone(t *testing.T) {
	t.Parallel()

	shared := &http.Client{Timeout: time.Minute}
	c := New("http://localhost:8085/api", WithHTTPClient(shared), WithTimeout(5*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.NotSame(t, shared, c.http)
}
