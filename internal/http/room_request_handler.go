package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/roomboard/internal/application"
)

type roomRequestService interface {
	CreateRoomRequest(ctx context.Context, params application.CreateRoomRequestParams) (application.RoomRequest, error)
	UpdateRoomRequest(ctx context.Context, params application.UpdateRoomRequestParams) (application.RoomRequest, error)
	GetRoomRequest(ctx context.Context, id int64) (application.RoomRequest, error)
	DeleteRoomRequest(ctx context.Context, principal application.Principal, id int64) error
	ListRoomRequests(ctx context.Context) ([]application.RoomRequest, error)
	ListRoomRequestsByUser(ctx context.Context, username string) ([]application.RoomRequest, error)
}

// RoomRequestHandler serves /profRoomBook/roomRequest.
type RoomRequestHandler struct {
	service   roomRequestService
	responder responder
	logger    *slog.Logger
}

// NewRoomRequestHandler builds a RoomRequestHandler.
func NewRoomRequestHandler(service roomRequestService, logger *slog.Logger) *RoomRequestHandler {
	base := defaultLogger(logger)
	return &RoomRequestHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomRequestHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomRequestHandler", operation, attrs...)
}

// Create handles POST. requestedBy always comes from the session.
func (h *RoomRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	request, err := h.service.CreateRoomRequest(r.Context(), application.CreateRoomRequestParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room request creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_request_id", request.ID).InfoContext(r.Context(), "room request created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRoomRequestDTO(request))
}

// Update handles PUT /{id}.
func (h *RoomRequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid room request id", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "room_request_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "room_request_id", id)

	request, err := h.service.UpdateRoomRequest(r.Context(), application.UpdateRoomRequestParams{
		Principal: principal,
		RequestID: id,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room request update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room request updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomRequestDTO(request))
}

// Get handles GET /{id}.
func (h *RoomRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	request, err := h.service.GetRoomRequest(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "room_request_id", id).ErrorContext(r.Context(), "room request lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomRequestDTO(request))
}

// Delete handles DELETE /{id}.
func (h *RoomRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid room request id", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "room_request_id", id)
	if err := h.service.DeleteRoomRequest(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "room request delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room request deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List handles GET on the collection.
func (h *RoomRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	requests, err := h.service.ListRoomRequests(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room request list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(requests)).DebugContext(r.Context(), "room requests listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomRequestDTOs(requests))
}

// ListByUser handles GET /user/{username}.
func (h *RoomRequestHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUsername)
		return
	}

	logger := h.log(r.Context(), "ListByUser", "requested_by", username)
	requests, err := h.service.ListRoomRequestsByUser(r.Context(), username)
	if err != nil {
		logger.ErrorContext(r.Context(), "room request list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(requests)).DebugContext(r.Context(), "room requests listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomRequestDTOs(requests))
}

type roomRequestRequest struct {
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Resources   string `json:"resources"`
}

func (r roomRequestRequest) toInput() application.RoomRequestInput {
	return application.RoomRequestInput{
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Resources:   r.Resources,
	}
}

type roomRequestDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Resources   string `json:"resources"`
	RequestedBy string `json:"requestedBy"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toRoomRequestDTO(request application.RoomRequest) roomRequestDTO {
	return roomRequestDTO{
		ID:          request.ID,
		Date:        request.Date,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Description: request.Description,
		Location:    request.Location,
		Capacity:    request.Capacity,
		Resources:   request.Resources,
		RequestedBy: request.RequestedBy,
		CreatedAt:   formatTimestamp(request.CreatedAt),
		UpdatedAt:   formatTimestamp(request.UpdatedAt),
	}
}

func toRoomRequestDTOs(requests []application.RoomRequest) []roomRequestDTO {
	out := make([]roomRequestDTO, 0, len(requests))
	for _, request := range requests {
		out = append(out, toRoomRequestDTO(request))
	}
	return out
}
