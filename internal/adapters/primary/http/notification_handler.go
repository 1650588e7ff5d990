package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/sunlib/helpdesk-backend/internal/adapters/primary/http/middleware"
	"github.com/sunlib/helpdesk-backend/internal/auth"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

// NotificationHandler handles HTTP requests for a user's notification feed.
type NotificationHandler struct {
	notificationService ports.NotificationService
	refreshLimiter      *mw.RateLimitByKey
	errorHandler        *ErrorHandler
	logger              *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler. The refresh
// limiter is keyed by user id so one session cannot hammer the ticket
// store on behalf of everyone.
func NewNotificationHandler(
	notificationService ports.NotificationService,
	refreshLimiter *mw.RateLimitByKey,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		refreshLimiter:      refreshLimiter,
		errorHandler:        errorHandler,
		logger:              logger.With("handler", "notifications"),
	}
}

// RegisterRoutes registers the /notifications routes.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetFeed)
	r.Get("/unread-count", h.HandleUnreadCount)
	r.Post("/{id}/read", h.HandleMarkRead)
	r.Post("/read-all", h.HandleMarkAllRead)
	r.Delete("/{id}", h.HandleClear)
	r.Delete("/", h.HandleClearAll)
}

// HandleGetFeed handles GET /notifications. It refreshes the feed from
// the current ticket and task state before returning it.
func (h *NotificationHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if h.refreshLimiter != nil && !h.refreshLimiter.Allow(claims.UserID.String()) {
		h.errorHandler.Handle(w, r, apperrors.NewRateLimitError())
		return
	}

	events, err := h.notificationService.Refresh(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, events)
}

// HandleUnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"unreadCount": count})
}

// HandleMarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	eventID := chi.URLParam(r, "id")
	if err := h.notificationService.MarkRead(r.Context(), claims.UserID, eventID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleMarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleClear handles DELETE /notifications/{id}.
func (h *NotificationHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	eventID := chi.URLParam(r, "id")
	if err := h.notificationService.Clear(r.Context(), claims.UserID, eventID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleClearAll handles DELETE /notifications.
func (h *NotificationHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.ClearAll(r.Context(), claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// getClaims extracts and validates user claims from the request context.
func (h *NotificationHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
