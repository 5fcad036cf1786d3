package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/roomboard/internal/application"
)

type bookingService interface {
	BookRoom(ctx context.Context, params application.BookRoomParams) (application.BookedRoom, error)
	GetBookedRoom(ctx context.Context, id int64) (application.BookedRoom, error)
	CancelBooking(ctx context.Context, principal application.Principal, id int64) error
	ListBookedRooms(ctx context.Context) ([]application.BookedRoom, error)
	ListBookedRoomsByUser(ctx context.Context, username string) ([]application.BookedRoom, error)
}

// BookedRoomHandler serves /BookedRoom.
type BookedRoomHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

// NewBookedRoomHandler builds a BookedRoomHandler.
func NewBookedRoomHandler(service bookingService, logger *slog.Logger) *BookedRoomHandler {
	base := defaultLogger(logger)
	return &BookedRoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookedRoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookedRoomHandler", operation, attrs...)
}

// Book handles POST /book. The post is consumed in the same transaction that
// records the booking.
func (h *BookedRoomHandler) Book(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Book", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Book", "room_post_id", req.RoomPostID)

	booked, err := h.service.BookRoom(r.Context(), application.BookRoomParams{
		Principal:  principal,
		RoomPostID: req.RoomPostID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booked_room_id", booked.ID).InfoContext(r.Context(), "room booked")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookedRoomDTO(booked))
}

// Get handles GET /{id}.
func (h *BookedRoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	booked, err := h.service.GetBookedRoom(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "booked_room_id", id).ErrorContext(r.Context(), "booked room lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookedRoomDTO(booked))
}

// Delete handles DELETE /{id}. Only the booker may cancel.
func (h *BookedRoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid booked room id", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "booked_room_id", id)
	if err := h.service.CancelBooking(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "booking cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List handles GET on the collection.
func (h *BookedRoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.service.ListBookedRooms(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "booked room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookedRoomDTOs(rooms))
}

// ListByUser handles GET /user/{username}.
func (h *BookedRoomHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUsername)
		return
	}

	rooms, err := h.service.ListBookedRoomsByUser(r.Context(), username)
	if err != nil {
		h.log(r.Context(), "ListByUser", "booked_by", username).ErrorContext(r.Context(), "booked room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookedRoomDTOs(rooms))
}

type bookRequest struct {
	RoomPostID int64 `json:"roomPostId"`
}

type bookedRoomDTO struct {
	ID          int64  `json:"id"`
	RoomPostID  int64  `json:"roomPostId"`
	Room        string `json:"room"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	PostedBy    string `json:"postedBy"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Resources   string `json:"resources"`
	BookedBy    string `json:"bookedBy"`
	BookedAt    string `json:"bookedAt"`
}

func toBookedRoomDTO(room application.BookedRoom) bookedRoomDTO {
	return bookedRoomDTO{
		ID:          room.ID,
		RoomPostID:  room.RoomPostID,
		Room:        room.Room,
		Date:        room.Date,
		StartTime:   room.StartTime,
		EndTime:     room.EndTime,
		PostedBy:    room.PostedBy,
		Description: room.Description,
		Location:    room.Location,
		Capacity:    room.Capacity,
		Resources:   room.Resources,
		BookedBy:    room.BookedBy,
		BookedAt:    formatTimestamp(room.BookedAt),
	}
}

func toBookedRoomDTOs(rooms []application.BookedRoom) []bookedRoomDTO {
	out := make([]bookedRoomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toBookedRoomDTO(room))
	}
	return out
}
