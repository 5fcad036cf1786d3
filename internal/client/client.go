// Package client is the typed REST client for the roomboard API. Every
// authenticated call takes an explicit *Session; server payloads are normalized
// into canonical records before they reach callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/roomboard/internal/logging"
	"github.com/example/roomboard/internal/validation"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// Client talks to one roomboard API base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. A client passed to WithHTTPClient
// is copied first, so the caller's value keeps its own timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			hc := *c.http
			hc.Timeout = timeout
			c.http = &hc
		}
	}
}

// WithLogger sets the base logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client for baseURL, for example "http://localhost:8085/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account and returns the registered username.
func (c *Client) Register(ctx context.Context, input RegisterInput) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	var resp struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, "register", nil, http.MethodPost, "/auth/register", input, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// Login exchanges HTTP Basic credentials for a Session. The password is not retained.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, &ValidationError{FieldErrors: map[string]string{"username": "username and password are required"}}
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/login", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(username, password)

	var resp struct {
		Username  string `json:"username"`
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
	if err := c.send(req, "login", &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.Username == "" {
		return nil, fmt.Errorf("%w: login response is missing token or username", ErrMalformedRecord)
	}

	session := &Session{Username: resp.Username, Token: resp.Token}
	if resp.ExpiresAt != "" {
		if session.ExpiresAt, err = time.Parse(time.RFC3339, resp.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%w: expiresAt: %v", ErrMalformedRecord, err)
		}
	}
	return session, nil
}

// Check asks the server whether session is still live.
func (c *Client) Check(ctx context.Context, session *Session) error {
	return c.do(ctx, "check session", session, http.MethodGet, "/auth/check", nil, nil)
}

// Logout revokes the session on the server and clears its token.
func (c *Client) Logout(ctx context.Context, session *Session) error {
	err := c.do(ctx, "logout", session, http.MethodPost, "/auth/logout", nil, nil)
	if session != nil && (err == nil || errors.Is(err, ErrUnauthorized)) {
		session.Token = ""
	}
	return err
}

// ListRoomPosts returns every room post in server order.
func (c *Client) ListRoomPosts(ctx context.Context, session *Session) ([]RoomPost, error) {
	var raws []rawRoomPost
	if err := c.do(ctx, "list room posts", session, http.MethodGet, "/profRoomBook/roomPost", nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[RoomPost](raws)
}

// ListRoomPostsByUser returns the posts made by username.
func (c *Client) ListRoomPostsByUser(ctx context.Context, session *Session, username string) ([]RoomPost, error) {
	var raws []rawRoomPost
	if err := c.do(ctx, "list room posts", session, http.MethodGet, "/profRoomBook/roomPost/user/"+url.PathEscape(username), nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[RoomPost](raws)
}

// GetRoomPost fetches one post.
func (c *Client) GetRoomPost(ctx context.Context, session *Session, id int64) (RoomPost, error) {
	var raw rawRoomPost
	if err := c.do(ctx, "get room post", session, http.MethodGet, "/profRoomBook/roomPost/"+idPath(id), nil, &raw); err != nil {
		return RoomPost{}, err
	}
	return raw.normalize()
}

// CreateRoomPost validates input locally and submits it. The server sets postedBy.
func (c *Client) CreateRoomPost(ctx context.Context, session *Session, input RoomPostInput) (RoomPost, error) {
	if err := validateInput(input); err != nil {
		return RoomPost{}, err
	}
	var raw rawRoomPost
	if err := c.do(ctx, "create room post", session, http.MethodPost, "/profRoomBook/roomPost", input, &raw); err != nil {
		return RoomPost{}, err
	}
	return raw.normalize()
}

// UpdateRoomPost replaces the editable fields of a post the session user owns.
func (c *Client) UpdateRoomPost(ctx context.Context, session *Session, id int64, input RoomPostInput) (RoomPost, error) {
	if err := validateInput(input); err != nil {
		return RoomPost{}, err
	}
	var raw rawRoomPost
	if err := c.do(ctx, "update room post", session, http.MethodPut, "/profRoomBook/roomPost/"+idPath(id), input, &raw); err != nil {
		return RoomPost{}, err
	}
	return raw.normalize()
}

// DeleteRoomPost removes a post the session user owns.
func (c *Client) DeleteRoomPost(ctx context.Context, session *Session, id int64) error {
	return c.do(ctx, "delete room post", session, http.MethodDelete, "/profRoomBook/roomPost/"+idPath(id), nil, nil)
}

// ListRoomRequests returns every room request in server order.
func (c *Client) ListRoomRequests(ctx context.Context, session *Session) ([]RoomRequest, error) {
	var raws []rawRoomRequest
	if err := c.do(ctx, "list room requests", session, http.MethodGet, "/profRoomBook/roomRequest", nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[RoomRequest](raws)
}

// ListRoomRequestsByUser returns the requests made by username.
func (c *Client) ListRoomRequestsByUser(ctx context.Context, session *Session, username string) ([]RoomRequest, error) {
	var raws []rawRoomRequest
	if err := c.do(ctx, "list room requests", session, http.MethodGet, "/profRoomBook/roomRequest/user/"+url.PathEscape(username), nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[RoomRequest](raws)
}

// GetRoomRequest fetches one request.
func (c *Client) GetRoomRequest(ctx context.Context, session *Session, id int64) (RoomRequest, error) {
	var raw rawRoomRequest
	if err := c.do(ctx, "get room request", session, http.MethodGet, "/profRoomBook/roomRequest/"+idPath(id), nil, &raw); err != nil {
		return RoomRequest{}, err
	}
	return raw.normalize()
}

// CreateRoomRequest validates input locally and submits it.
func (c *Client) CreateRoomRequest(ctx context.Context, session *Session, input RoomRequestInput) (RoomRequest, error) {
	if err := validateInput(input); err != nil {
		return RoomRequest{}, err
	}
	var raw rawRoomRequest
	if err := c.do(ctx, "create room request", session, http.MethodPost, "/profRoomBook/roomRequest", input, &raw); err != nil {
		return RoomRequest{}, err
	}
	return raw.normalize()
}

// UpdateRoomRequest replaces the editable fields of a request the session user owns.
func (c *Client) UpdateRoomRequest(ctx context.Context, session *Session, id int64, input RoomRequestInput) (RoomRequest, error) {
	if err := validateInput(input); err != nil {
		return RoomRequest{}, err
	}
	var raw rawRoomRequest
	if err := c.do(ctx, "update room request", session, http.MethodPut, "/profRoomBook/roomRequest/"+idPath(id), input, &raw); err != nil {
		return RoomRequest{}, err
	}
	return raw.normalize()
}

// DeleteRoomRequest removes a request the session user owns.
func (c *Client) DeleteRoomRequest(ctx context.Context, session *Session, id int64) error {
	return c.do(ctx, "delete room request", session, http.MethodDelete, "/profRoomBook/roomRequest/"+idPath(id), nil, nil)
}

// BookRoomPost claims a post in one server call. The server consumes the post
// and records the booking atomically.
func (c *Client) BookRoomPost(ctx context.Context, session *Session, postID int64) (BookedRoom, error) {
	if postID <= 0 {
		return BookedRoom{}, &ValidationError{FieldErrors: map[string]string{"roomPostId": "roomPostId is required"}}
	}
	body := struct {
		RoomPostID int64 `json:"roomPostId"`
	}{postID}
	var raw rawBookedRoom
	if err := c.do(ctx, "book room", session, http.MethodPost, "/BookedRoom/book", body, &raw); err != nil {
		return BookedRoom{}, err
	}
	return raw.normalize()
}

// ListBookedRooms returns every booking.
func (c *Client) ListBookedRooms(ctx context.Context, session *Session) ([]BookedRoom, error) {
	var raws []rawBookedRoom
	if err := c.do(ctx, "list booked rooms", session, http.MethodGet, "/BookedRoom", nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[BookedRoom](raws)
}

// ListBookedRoomsByUser returns the bookings made by username.
func (c *Client) ListBookedRoomsByUser(ctx context.Context, session *Session, username string) ([]BookedRoom, error) {
	var raws []rawBookedRoom
	if err := c.do(ctx, "list booked rooms", session, http.MethodGet, "/BookedRoom/user/"+url.PathEscape(username), nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[BookedRoom](raws)
}

// GetBookedRoom fetches one booking.
func (c *Client) GetBookedRoom(ctx context.Context, session *Session, id int64) (BookedRoom, error) {
	var raw rawBookedRoom
	if err := c.do(ctx, "get booked room", session, http.MethodGet, "/BookedRoom/"+idPath(id), nil, &raw); err != nil {
		return BookedRoom{}, err
	}
	return raw.normalize()
}

// CancelBooking deletes a booking made by the session user.
func (c *Client) CancelBooking(ctx context.Context, session *Session, id int64) error {
	return c.do(ctx, "cancel booking", session, http.MethodDelete, "/BookedRoom/"+idPath(id), nil, nil)
}

// AddDashboardEntry validates input locally and adds it to the session user's dashboard.
func (c *Client) AddDashboardEntry(ctx context.Context, session *Session, input DashboardEntryInput) (DashboardEntry, error) {
	if err := validateInput(input); err != nil {
		return DashboardEntry{}, err
	}
	if day, ok := validation.CanonicalWeekday(input.Day); ok {
		input.Day = day
	}
	var raw rawDashboardEntry
	if err := c.do(ctx, "add dashboard entry", session, http.MethodPost, "/dashboard/add", input, &raw); err != nil {
		return DashboardEntry{}, err
	}
	return raw.normalize()
}

// ListDashboardEntries returns username's entries. A non-empty day filters server side.
func (c *Client) ListDashboardEntries(ctx context.Context, session *Session, username, day string) ([]DashboardEntry, error) {
	path := "/dashboard/user/" + url.PathEscape(username)
	if day != "" {
		path += "?" + url.Values{"day": {day}}.Encode()
	}
	var raws []rawDashboardEntry
	if err := c.do(ctx, "list dashboard entries", session, http.MethodGet, path, nil, &raws); err != nil {
		return nil, err
	}
	return normalizeAll[DashboardEntry](raws)
}

// DeleteDashboardEntry removes one of the session user's entries.
func (c *Client) DeleteDashboardEntry(ctx context.Context, session *Session, id int64) error {
	return c.do(ctx, "delete dashboard entry", session, http.MethodDelete, "/dashboard/"+idPath(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op string, session *Session, method, path string, body, out any) error {
	if path != "/auth/register" && !session.Live() {
		return ErrNoSession
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if session.Live() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}
	return c.send(req, op, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request, op string, out any) error {
	logger := logging.FromContextOr(req.Context(), c.logger).With("operation", op, "method", req.Method, "path", req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.DebugContext(req.Context(), "request failed", "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger.DebugContext(req.Context(), "request completed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeServerError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, op, err)
	}
	return nil
}

func decodeServerError(op string, resp *http.Response) error {
	serverErr := &ServerError{Op: op, StatusCode: resp.StatusCode}
	var body struct {
		ErrorCode string            `json:"error_code"`
		Message   string            `json:"message"`
		Errors    map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		serverErr.Code = body.ErrorCode
		serverErr.Message = body.Message
		serverErr.FieldErrors = body.Errors
	}
	return serverErr
}

func validateInput(input any) error {
	if fields := validation.Struct(input); fields != nil {
		return &ValidationError{FieldErrors: fields}
	}
	return nil
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}
