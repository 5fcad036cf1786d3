package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roomboard/internal/application"
)

type roomPostService interface {
	CreateRoomPost(ctx context.Context, params application.CreateRoomPostParams) (application.RoomPost, error)
	UpdateRoomPost(ctx context.Context, params application.UpdateRoomPostParams) (application.RoomPost, error)
	GetRoomPost(ctx context.Context, id int64) (application.RoomPost, error)
	DeleteRoomPost(ctx context.Context, principal application.Principal, id int64) error
	ListRoomPosts(ctx context.Context) ([]application.RoomPost, error)
	ListRoomPostsByUser(ctx context.Context, username string) ([]application.RoomPost, error)
}

// RoomPostHandler serves /profRoomBook/roomPost.
type RoomPostHandler struct {
	service   roomPostService
	responder responder
	logger    *slog.Logger
}

// NewRoomPostHandler builds a RoomPostHandler.
func NewRoomPostHandler(service roomPostService, logger *slog.Logger) *RoomPostHandler {
	base := defaultLogger(logger)
	return &RoomPostHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomPostHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomPostHandler", operation, attrs...)
}

// Create handles POST. postedBy always comes from the session.
func (h *RoomPostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room post", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	post, err := h.service.CreateRoomPost(r.Context(), application.CreateRoomPostParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room post creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_post_id", post.ID).InfoContext(r.Context(), "room post created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRoomPostDTO(post))
}

// Update handles PUT /{id}.
func (h *RoomPostHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid room post id", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "room_post_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room post update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "room_post_id", id)

	post, err := h.service.UpdateRoomPost(r.Context(), application.UpdateRoomPostParams{
		Principal: principal,
		PostID:    id,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room post update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room post updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomPostDTO(post))
}

// Get handles GET /{id}.
func (h *RoomPostHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	post, err := h.service.GetRoomPost(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "room_post_id", id).ErrorContext(r.Context(), "room post lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomPostDTO(post))
}

// Delete handles DELETE /{id}.
func (h *RoomPostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid room post id", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "room_post_id", id)
	if err := h.service.DeleteRoomPost(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "room post delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room post deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List handles GET on the collection.
func (h *RoomPostHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	posts, err := h.service.ListRoomPosts(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room post list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(posts)).DebugContext(r.Context(), "room posts listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomPostDTOs(posts))
}

// ListByUser handles GET /user/{username}.
func (h *RoomPostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUsername)
		return
	}

	logger := h.log(r.Context(), "ListByUser", "posted_by", username)
	posts, err := h.service.ListRoomPostsByUser(r.Context(), username)
	if err != nil {
		logger.ErrorContext(r.Context(), "room post list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(posts)).DebugContext(r.Context(), "room posts listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomPostDTOs(posts))
}

type roomPostRequest struct {
	Room        string `json:"room"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Resources   string `json:"resources"`
}

func (r roomPostRequest) toInput() application.RoomPostInput {
	return application.RoomPostInput{
		Room:        r.Room,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Resources:   r.Resources,
	}
}

type roomPostDTO struct {
	ID          int64  `json:"id"`
	Room        string `json:"room"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	PostedBy    string `json:"postedBy"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Resources   string `json:"resources"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toRoomPostDTO(post application.RoomPost) roomPostDTO {
	return roomPostDTO{
		ID:          post.ID,
		Room:        post.Room,
		Date:        post.Date,
		StartTime:   post.StartTime,
		EndTime:     post.EndTime,
		PostedBy:    post.PostedBy,
		Description: post.Description,
		Location:    post.Location,
		Capacity:    post.Capacity,
		Resources:   post.Resources,
		CreatedAt:   formatTimestamp(post.CreatedAt),
		UpdatedAt:   formatTimestamp(post.UpdatedAt),
	}
}

func toRoomPostDTOs(posts []application.RoomPost) []roomPostDTO {
	out := make([]roomPostDTO, 0, len(posts))
	for _, post := range posts {
		out = append(out, toRoomPostDTO(post))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
