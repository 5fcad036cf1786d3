package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubServer struct {
	*httptest.Server
	bookCalls  atomic.Int32
	failPosts  atomic.Bool
	lastUpdate atomic.Value
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()
	s := &stubServer{}
	mux := http.NewServeMux()

	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer tok-alice" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "session required"})
			return false
		}
		return true
	}
	posts := []map[string]any{
		{"id": 1, "room": "B12", "date": "2024-05-03", "startTime": "09:00", "endTime": "10:00", "users": map[string]string{"username": "bob"}, "description": "seminar room", "location": "North", "capacity": 20},
		{"id": 2, "room": "A01", "date": "2024-05-04", "startTime": "11:00", "endTime": "12:00", "postedBy": "alice", "description": "lab", "location": "South", "capacity": 10},
	}

	mux.HandleFunc("GET /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret-pass" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"username":  "alice",
			"token":     "tok-alice",
			"expiresAt": time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /api/auth/check", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, map[string]string{"username": "alice"})
		}
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("GET /api/profRoomBook/roomPost", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		if s.failPosts.Load() {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal", "message": "disk on fire"})
			return
		}
		writeJSON(w, http.StatusOK, posts)
	})
	mux.HandleFunc("GET /api/profRoomBook/roomPost/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		for _, post := range posts {
			if r.PathValue("id") == jsonNumber(post["id"]) {
				writeJSON(w, http.StatusOK, post)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "room post not found"})
	})
	mux.HandleFunc("PUT /api/profRoomBook/roomPost/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": err.Error()})
			return
		}
		s.lastUpdate.Store(body)
		body["id"] = 2
		body["postedBy"] = "alice"
		writeJSON(w, http.StatusOK, body)
	})
	mux.HandleFunc("GET /api/profRoomBook/roomRequest/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		if r.PathValue("id") != "5" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "room request not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 5, "date": "2024-05-06", "startTime": "14:00", "endTime": "16:00",
			"users": map[string]string{"username": "bob"}, "description": "viva", "location": "East", "capacity": 6,
		})
	})
	mux.HandleFunc("GET /api/BookedRoom/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 7, "roomPostId": 1, "room": "B12", "date": "2024-05-03", "startTime": "09:00", "endTime": "10:00",
			"postedBy": "bob", "bookedBy": "alice", "location": "North", "capacity": 20,
		})
	})
	mux.HandleFunc("POST /api/BookedRoom/book", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		s.bookCalls.Add(1)
		var body struct {
			RoomPostID int64 `json:"roomPostId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RoomPostID != 1 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "room post not found"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": 7, "roomPostId": 1, "room": "B12", "date": "2024-05-03", "startTime": "09:00", "endTime": "10:00",
			"postedBy": "bob", "bookedBy": "alice", "location": "North", "capacity": 20,
		})
	})
	mux.HandleFunc("GET /api/dashboard/user/{username}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 3, "username": "alice", "room": "C3", "subject": "Algebra", "date": "2024-04-29", "startTime": "08:00", "endTime": "09:30", "day": "Monday"},
			{"id": 4, "username": "alice", "room": "C4", "subject": "Topology", "date": "2024-04-30", "startTime": "10:00", "endTime": "11:30", "day": "Tuesday"},
		})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonNumber(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

type cliHarness struct {
	configPath  string
	sessionPath string
}

func newHarness(t *testing.T, apiURL string) cliHarness {
	t.Helper()
	t.Setenv("ROOMBOARD_API_URL", "")
	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.yaml")
	configPath := filepath.Join(dir, "roomboard.yaml")
	content := "apiURL: " + apiURL + "\nsessionFile: " + sessionPath + "\ntimeout: 5s\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return cliHarness{configPath: configPath, sessionPath: sessionPath}
}

func (h cliHarness) run(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	app := NewAppContext(context.Background(), strings.NewReader(stdin), &out, &errOut)
	cmd := NewRootCmd(app)
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h cliHarness) login(t *testing.T) {
	t.Helper()
	out, err := h.run("secret-pass\n", "login", "alice")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as alice.")
}

func TestLoginStoresSessionWithoutPassword(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")

	h.login(t)

	data, err := os.ReadFile(h.sessionPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tok-alice")
	assert.NotContains(t, string(data), "secret-pass")

	out, err := h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")

	out, err = h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	_, err = os.Stat(h.sessionPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")

	_, err := h.run("wrong-pass\n", "login", "alice")
	require.Error(t, err)
	assert.Equal(t, "failed to log in: please log in", err.Error())
	_, statErr := os.Stat(h.sessionPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCommandsRequireLogin(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")

	_, err := h.run("", "posts", "list")
	require.Error(t, err)
	assert.Equal(t, "failed to fetch room posts: please log in", err.Error())
}

func TestPostsListHidesOwnPosts(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")
	h.login(t)

	out, err := h.run("", "posts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "B12")
	assert.Contains(t, out, "bob")
	assert.NotContains(t, out, "A01")
}

func TestServerFailureShowsGenericMessage(t *testing.T) {
	srv := newStubServer(t)
	srv.failPosts.Store(true)
	h := newHarness(t, srv.URL+"/api")
	h.login(t)

	_, err := h.run("", "posts", "list")
	require.Error(t, err)
	assert.Equal(t, "failed to fetch room posts", err.Error())
	assert.NotContains(t, err.Error(), "disk on fire")
}

func TestBookCommand(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		srv := newStubServer(t)
		h := newHarness(t, srv.URL+"/api")
		h.login(t)

		out, err := h.run("y\n", "book", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Are you sure you want to book Room B12 on 2024-05-03?")
		assert.Contains(t, out, "Booked Room B12 on 2024-05-03 09:00-10:00 (booking 7).")
		assert.Equal(t, int32(1), srv.bookCalls.Load())
	})

	t.Run("declined sends nothing", func(t *testing.T) {
		srv := newStubServer(t)
		h := newHarness(t, srv.URL+"/api")
		h.login(t)

		out, err := h.run("n\n", "book", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Booking cancelled.")
		assert.Equal(t, int32(0), srv.bookCalls.Load())
	})

	t.Run("own post rejected locally", func(t *testing.T) {
		srv := newStubServer(t)
		h := newHarness(t, srv.URL+"/api")
		h.login(t)

		_, err := h.run("", "book", "2", "--yes")
		require.Error(t, err)
		assert.Equal(t, "failed to book room", err.Error())
		assert.Equal(t, int32(0), srv.bookCalls.Load())
	})

	t.Run("invalid id", func(t *testing.T) {
		srv := newStubServer(t)
		h := newHarness(t, srv.URL+"/api")

		_, err := h.run("", "book", "abc")
		require.Error(t, err)
		assert.Equal(t, "failed to book room", err.Error())
	})
}

func TestDashboardListByDay(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")
	h.login(t)

	out, err := h.run("", "dashboard", "list", "--day", "monday")
	require.NoError(t, err)
	assert.Contains(t, out, "Monday: 1 class(es)")
	assert.Contains(t, out, "Algebra")
	assert.NotContains(t, out, "Topology")

	out, err = h.run("", "dashboard", "list", "--day", "Friday")
	require.NoError(t, err)
	assert.Contains(t, out, "No classes on Friday.")

	_, err = h.run("", "dashboard", "list", "--day", "Funday")
	require.Error(t, err)
	assert.Equal(t, "failed to fetch classes", err.Error())

	out, err = h.run("", "dashboard", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Algebra")
	assert.Contains(t, out, "Topology")
}

func TestPostsUpdateKeepsUnchangedFields(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")
	h.login(t)

	out, err := h.run("", "posts", "update", "2", "--room", "A02", "--capacity", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated room post 2.")
	assert.Contains(t, out, "A02")

	sent, ok := srv.lastUpdate.Load().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A02", sent["room"])
	assert.Equal(t, float64(12), sent["capacity"])
	assert.Equal(t, "2024-05-04", sent["date"])
	assert.Equal(t, "11:00", sent["startTime"])
	assert.Equal(t, "lab", sent["description"])

	_, err = h.run("", "posts", "update", "2", "--start", "9:00")
	require.Error(t, err)
	assert.Equal(t, "failed to update room post", err.Error())
}

func TestShowCommands(t *testing.T) {
	srv := newStubServer(t)
	h := newHarness(t, srv.URL+"/api")
	h.login(t)

	out, err := h.run("", "requests", "show", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "viva")
	assert.Contains(t, out, "bob")

	_, err = h.run("", "requests", "show", "9")
	require.Error(t, err)
	assert.Equal(t, "failed to fetch room request", err.Error())

	out, err = h.run("", "booked", "show", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "B12")
	assert.Contains(t, out, "North")
}
