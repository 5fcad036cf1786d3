package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/roomboard/internal/application"
)

type dashboardService interface {
	AddEntry(ctx context.Context, params application.AddDashboardEntryParams) (application.DashboardEntry, error)
	ListEntries(ctx context.Context, username, day string) ([]application.DashboardEntry, error)
	DeleteEntry(ctx context.Context, principal application.Principal, id int64) error
}

// DashboardHandler serves /dashboard.
type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

// NewDashboardHandler builds a DashboardHandler.
func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

// Add handles POST /add. The entry is owned by the session user.
func (h *DashboardHandler) Add(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req dashboardEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Add", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode dashboard entry", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Add", "day", req.Day)

	entry, err := h.service.AddEntry(r.Context(), application.AddDashboardEntryParams{
		Principal: principal,
		Input: application.DashboardEntryInput{
			Room:      req.Room,
			Subject:   req.Subject,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Day:       req.Day,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "dashboard entry creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("dashboard_entry_id", entry.ID).InfoContext(r.Context(), "dashboard entry added")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toDashboardEntryDTO(entry))
}

// ListByUser handles GET /user/{username}?day=.
func (h *DashboardHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUsername)
		return
	}
	day := r.URL.Query().Get("day")

	entries, err := h.service.ListEntries(r.Context(), username, day)
	if err != nil {
		h.log(r.Context(), "ListByUser", "owner", username, "day", day).ErrorContext(r.Context(), "dashboard list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDashboardEntryDTOs(entries))
}

// Delete handles DELETE /{id}.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "dashboard_entry_id", id)
	if err := h.service.DeleteEntry(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "dashboard entry delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "dashboard entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type dashboardEntryRequest struct {
	Room      string `json:"room"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Day       string `json:"day"`
}

type dashboardEntryDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Room      string `json:"room"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Day       string `json:"day"`
}

func toDashboardEntryDTO(entry application.DashboardEntry) dashboardEntryDTO {
	return dashboardEntryDTO{
		ID:        entry.ID,
		Username:  entry.Username,
		Room:      entry.Room,
		Subject:   entry.Subject,
		Date:      entry.Date,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Day:       entry.Day,
	}
}

func toDashboardEntryDTOs(entries []application.DashboardEntry) []dashboardEntryDTO {
	out := make([]dashboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toDashboardEntryDTO(entry))
	}
	return out
}
